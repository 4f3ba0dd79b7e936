package linker

import "debug/elf"

// ShstrtabSection is .shstrtab, the section-header string table every
// other Chunk's name is resolved against; SetOsecOffsets assigns every
// chunk's Shdr.Name from this table right before OutputShdr is sized, so
// this section must be interned last among the header-adjacent chunks.
type ShstrtabSection struct {
	Chunk
	strings []byte
	offsets map[string]uint32
}

func NewShstrtabSection() *ShstrtabSection {
	s := &ShstrtabSection{Chunk: NewChunk(), offsets: make(map[string]uint32)}
	s.Name = ".shstrtab"
	s.Shdr.Type = uint32(elf.SHT_STRTAB)
	s.Shdr.AddrAlign = 1
	s.strings = append(s.strings, 0)
	return s
}

func (s *ShstrtabSection) Add(name string) uint32 {
	if off, ok := s.offsets[name]; ok {
		return off
	}
	off := uint32(len(s.strings))
	s.strings = append(s.strings, []byte(name)...)
	s.strings = append(s.strings, 0)
	s.offsets[name] = off
	return off
}

func (s *ShstrtabSection) UpdateShdr(ctx *Context) {
	s.Shdr.Size = uint64(len(s.strings))
}

func (s *ShstrtabSection) CopyBuf(ctx *Context) {
	copy(ctx.Buf[s.Shdr.Offset:], s.strings)
}
