package linker

import "debug/elf"

// PltGotSection holds the non-lazy PLT stub variant: a symbol that
// already has a regular .got slot (say, because its address is also
// taken as data) gets a PLT entry here that jumps straight through that
// slot instead of through .got.plt's lazily-bound one, skipping the
// resolver trampoline entirely.
type PltGotSection struct {
	Chunk
	Syms []*Symbol
}

func NewPltGotSection() *PltGotSection {
	p := &PltGotSection{Chunk: NewChunk()}
	p.Name = ".plt.got"
	p.Shdr.Type = uint32(elf.SHT_PROGBITS)
	p.Shdr.Flags = uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR)
	p.Shdr.AddrAlign = 16
	return p
}

func (p *PltGotSection) Add(ctx *Context, sym *Symbol) {
	sym.SetPltGotIdx(ctx, int32(len(p.Syms)))
	p.Syms = append(p.Syms, sym)
}

func (p *PltGotSection) UpdateShdr(ctx *Context) {
	p.Shdr.Size = uint64(len(p.Syms)) * uint64(ctx.Target.PltGotEntrySize())
}

func (p *PltGotSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[p.Shdr.Offset:]
	entSize := ctx.Target.PltGotEntrySize()
	for i, sym := range p.Syms {
		entry := buf[int64(i)*entSize : int64(i)*entSize+entSize]
		entryAddr := p.Shdr.Addr + uint64(i)*uint64(entSize)
		ctx.Target.WritePltGotEntry(entry, entryAddr, sym.GetGotAddr(ctx))
	}
}
