package linker

import "debug/elf"

// StrtabSection is .strtab, the string table backing the full (non-
// dynamic) symbol table in .symtab. Unlike .dynstr it carries no
// SHF_ALLOC flag since the loader never reads it at runtime.
type StrtabSection struct {
	Chunk
	strs   []string
	offset map[string]uint32
	size   uint32
}

func NewStrtabSection() *StrtabSection {
	s := &StrtabSection{Chunk: NewChunk(), offset: map[string]uint32{"": 0}, size: 1}
	s.Name = ".strtab"
	s.Shdr.Type = uint32(elf.SHT_STRTAB)
	s.Shdr.AddrAlign = 1
	return s
}

func (s *StrtabSection) Add(name string) uint32 {
	if off, ok := s.offset[name]; ok {
		return off
	}
	off := s.size
	s.offset[name] = off
	s.strs = append(s.strs, name)
	s.size += uint32(len(name)) + 1
	return off
}

func (s *StrtabSection) UpdateShdr(ctx *Context) {
	s.Shdr.Size = uint64(s.size)
}

func (s *StrtabSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[s.Shdr.Offset:]
	buf[0] = 0
	pos := uint32(1)
	for _, str := range s.strs {
		copy(buf[pos:], str)
		buf[pos+uint32(len(str))] = 0
		pos += uint32(len(str)) + 1
	}
}
