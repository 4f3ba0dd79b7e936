package linker

import (
	"debug/elf"

	"github.com/goldlink/goldlink/pkg/utils"
)

// GotPltSection is .got.plt: one slot per lazily-bound PLT entry, after
// three reserved slots (the address of .dynamic, then the link_map
// pointer and the resolver entry point that ld.so fills in for PLT0's
// stub). Before the first call to a given PLT stub, its slot holds the
// address of that stub's "push $index" instruction, so the first jump
// falls through into PLT0; ld.so overwrites it with the real function
// address once resolved.
type GotPltSection struct {
	Chunk
	Syms []*Symbol
}

func NewGotPltSection() *GotPltSection {
	g := &GotPltSection{Chunk: NewChunk()}
	g.Name = ".got.plt"
	g.Shdr.Type = uint32(elf.SHT_PROGBITS)
	g.Shdr.Flags = uint64(elf.SHF_ALLOC | elf.SHF_WRITE)
	g.Shdr.AddrAlign = 8
	return g
}

func (g *GotPltSection) Add(sym *Symbol) int64 {
	idx := int64(len(g.Syms))
	g.Syms = append(g.Syms, sym)
	return idx
}

func (g *GotPltSection) EntryAddr(idx int64) uint64 {
	return g.Shdr.Addr + uint64(3+idx)*8
}

func (g *GotPltSection) idxOf(sym *Symbol) int64 {
	for i, s := range g.Syms {
		if s == sym {
			return int64(i)
		}
	}
	return -1
}

func (g *GotPltSection) UpdateShdr(ctx *Context) {
	g.Shdr.Size = uint64(3+len(g.Syms)) * 8
}

func (g *GotPltSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[g.Shdr.Offset:]
	for i := range buf[:g.Shdr.Size] {
		buf[i] = 0
	}
	if ctx.Dynamic != nil {
		utils.Write[uint64](buf, ctx.Dynamic.Shdr.Addr)
	}
	for i, sym := range g.Syms {
		idx := ctx.Plt.IdxOf(sym)
		entryAddr := ctx.Plt.Shdr.Addr + uint64(ctx.Target.PltHeaderSize()) + uint64(idx)*uint64(ctx.Target.PltEntrySize())
		utils.Write[uint64](buf[(3+i)*8:], entryAddr+6) // skip the 6-byte "jmp *slot(%rip)"
	}
}
