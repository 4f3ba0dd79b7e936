package linker

import "debug/elf"

// InterpSection is .interp: the null-terminated path to the dynamic
// linker that PT_INTERP points at, present only when the output is a
// dynamically-linked executable.
type InterpSection struct {
	Chunk
	Path string
}

const defaultDynamicLinker = "/lib64/ld-linux-x86-64.so.2"

func NewInterpSection(path string) *InterpSection {
	if path == "" {
		path = defaultDynamicLinker
	}
	i := &InterpSection{Chunk: NewChunk(), Path: path}
	i.Name = ".interp"
	i.Shdr.Type = uint32(elf.SHT_PROGBITS)
	i.Shdr.Flags = uint64(elf.SHF_ALLOC)
	i.Shdr.AddrAlign = 1
	i.Shdr.Size = uint64(len(path)) + 1
	return i
}

func (i *InterpSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[i.Shdr.Offset:]
	copy(buf, i.Path)
	buf[len(i.Path)] = 0
}
