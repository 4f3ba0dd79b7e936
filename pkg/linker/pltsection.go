package linker

import "debug/elf"

// PltSection is .plt: the lazily-bound procedure linkage table. Entry 0
// is the shared header stub that jumps into the dynamic linker's
// resolver; every symbol needing NEEDS_PLT gets one entry after it,
// sized and encoded by ctx.Target so the byte-level stub stays
// architecture-specific.
type PltSection struct {
	Chunk
	Syms []*Symbol
}

func NewPltSection() *PltSection {
	p := &PltSection{Chunk: NewChunk()}
	p.Name = ".plt"
	p.Shdr.Type = uint32(elf.SHT_PROGBITS)
	p.Shdr.Flags = uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR)
	p.Shdr.AddrAlign = 16
	return p
}

func (p *PltSection) Add(ctx *Context, sym *Symbol) {
	sym.SetPltIdx(ctx, int32(len(p.Syms)))
	p.Syms = append(p.Syms, sym)
}

func (p *PltSection) IdxOf(sym *Symbol) int64 {
	for i, s := range p.Syms {
		if s == sym {
			return int64(i)
		}
	}
	return -1
}

func (p *PltSection) UpdateShdr(ctx *Context) {
	p.Shdr.Size = uint64(ctx.Target.PltHeaderSize()) + uint64(len(p.Syms))*uint64(ctx.Target.PltEntrySize())
}

func (p *PltSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[p.Shdr.Offset:]
	gotPltAddr := ctx.GotPlt.Shdr.Addr

	ctx.Target.WritePltHeader(buf, p.Shdr.Addr, gotPltAddr)
	buf = buf[ctx.Target.PltHeaderSize():]

	entSize := ctx.Target.PltEntrySize()
	for i := range p.Syms {
		entry := buf[int64(i)*entSize : int64(i)*entSize+entSize]
		gotPltEntry := ctx.GotPlt.EntryAddr(int64(i))
		ctx.Target.WritePltEntry(entry, p.Shdr.Addr+uint64(ctx.Target.PltHeaderSize())+uint64(i)*uint64(entSize), gotPltEntry, int64(i))
	}
}
