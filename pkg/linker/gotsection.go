package linker

import (
	"debug/elf"

	"github.com/goldlink/goldlink/pkg/utils"
)

// GotSection is .got: the table of eight-byte slots that PC-relative
// code loads through instead of embedding an absolute address, so that
// the address can be patched once by the loader or the linker itself.
// TlsgdSyms holds general-dynamic TLS pairs (module id, offset), one
// pair per two slots; GotTpSyms holds initial-exec TLS offsets.
type GotSection struct {
	Chunk
	GotSyms   []*Symbol
	GotTpSyms []*Symbol
	TlsgdSyms []*Symbol
	TlsldIdx  int64
}

func NewGotSection() *GotSection {
	g := &GotSection{Chunk: NewChunk(), TlsldIdx: -1}
	g.Name = ".got"
	g.Shdr.Type = uint32(elf.SHT_PROGBITS)
	g.Shdr.Flags = uint64(elf.SHF_ALLOC | elf.SHF_WRITE)
	g.Shdr.AddrAlign = 8
	return g
}

func (g *GotSection) AddGotSymbol(ctx *Context, sym *Symbol) {
	sym.SetGotIdx(ctx, int32(g.Shdr.Size/8))
	g.Shdr.Size += 8
	g.GotSyms = append(g.GotSyms, sym)
}

func (g *GotSection) AddGotTpSymbol(ctx *Context, sym *Symbol) {
	sym.SetGotTpIdx(ctx, int32(g.Shdr.Size/8))
	g.Shdr.Size += 8
	g.GotTpSyms = append(g.GotTpSyms, sym)
}

func (g *GotSection) AddTlsgdSymbol(ctx *Context, sym *Symbol) {
	sym.SetTlsgdIdx(ctx, int32(g.Shdr.Size/8))
	g.Shdr.Size += 16
	g.TlsgdSyms = append(g.TlsgdSyms, sym)
}

func (g *GotSection) AddTlsld(ctx *Context) int64 {
	if g.TlsldIdx == -1 {
		g.TlsldIdx = int64(g.Shdr.Size / 8)
		g.Shdr.Size += 16
	}
	return g.TlsldIdx
}

// GetEntries returns every slot's static contribution and, for a slot
// that a dynamic-linker relocation must instead resolve at load time, the
// DT_RELA relocation type CopyBuf and PopulateDynamicGotRelocations key off
// of; a Type of R_X86_64_NONE marks a plain link-time constant.
func (g *GotSection) GetEntries(ctx *Context) []GotEntry {
	entries := make([]GotEntry, 0)

	for _, sym := range g.GotSyms {
		idx := int64(sym.GetGotIdx(ctx))
		if sym.IsPreemptible(ctx) {
			entries = append(entries, NewGotEntry(idx, 0, int64(elf.R_X86_64_GLOB_DAT)))
		} else if ctx.Arg.Shared && sym.IsRelocatable() {
			entries = append(entries, NewGotEntry(idx, sym.GetAddr(ctx), int64(elf.R_X86_64_RELATIVE)))
		} else {
			entries = append(entries, NewGotEntry(idx, sym.GetAddr(ctx), int64(elf.R_X86_64_NONE)))
		}
	}

	for _, sym := range g.GotTpSyms {
		idx := int64(sym.GetGotTpIdx(ctx))
		if sym.IsPreemptible(ctx) {
			entries = append(entries, NewGotEntry(idx, 0, int64(elf.R_X86_64_TPOFF64)))
		} else {
			entries = append(entries, NewGotEntry(idx, sym.GetAddr(ctx)-ctx.TpAddr, int64(elf.R_X86_64_NONE)))
		}
	}

	for _, sym := range g.TlsgdSyms {
		idx := int64(sym.GetTlsgdIdx(ctx))
		if sym.IsPreemptible(ctx) {
			entries = append(entries, NewGotEntry(idx, 0, int64(elf.R_X86_64_DTPMOD64)))
			entries = append(entries, NewGotEntry(idx+1, 0, int64(elf.R_X86_64_DTPOFF64)))
		} else {
			entries = append(entries, NewGotEntry(idx, 1, int64(elf.R_X86_64_NONE)))
			entries = append(entries, NewGotEntry(idx+1, sym.GetAddr(ctx)-ctx.TpAddr, int64(elf.R_X86_64_NONE)))
		}
	}

	if g.TlsldIdx != -1 {
		entries = append(entries, NewGotEntry(g.TlsldIdx, 0, int64(elf.R_X86_64_DTPMOD64)))
		entries = append(entries, NewGotEntry(g.TlsldIdx+1, 0, int64(elf.R_X86_64_NONE)))
	}

	return entries
}

func (g *GotSection) UpdateShdr(ctx *Context) {
	if g.Shdr.Size == 0 {
		g.Shdr.Size = 8
	}
}

func (g *GotSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[g.Shdr.Offset:]
	for i := uint64(0); i < g.Shdr.Size; i++ {
		buf[i] = 0
	}

	for _, ent := range g.GetEntries(ctx) {
		if !ent.IsRel() {
			utils.Write[uint64](buf[ent.Idx*8:], ent.Val)
		}
	}
}

// PopulateDynamicGotRelocations appends a .rela.dyn entry for every GOT
// slot that needs the dynamic linker to patch it in at load time,
// instead of the linker resolving it to a link-time constant.
func (g *GotSection) PopulateDynamicGotRelocations(ctx *Context) {
	if ctx.RelDyn == nil {
		return
	}

	slotAddr := func(idx int32) uint64 { return g.Shdr.Addr + uint64(idx)*8 }

	for _, sym := range g.GotSyms {
		idx := sym.GetGotIdx(ctx)
		if sym.IsPreemptible(ctx) {
			ctx.RelDyn.Add(Rela{Offset: slotAddr(idx), Type: uint32(elf.R_X86_64_GLOB_DAT), Sym: uint32(sym.DynsymIdx)})
		} else if ctx.Arg.Shared && sym.IsRelocatable() {
			ctx.RelDyn.Add(Rela{Offset: slotAddr(idx), Type: uint32(elf.R_X86_64_RELATIVE), Addend: int64(sym.GetAddr(ctx))})
		}
	}

	for _, sym := range g.GotTpSyms {
		if sym.IsPreemptible(ctx) {
			idx := sym.GetGotTpIdx(ctx)
			ctx.RelDyn.Add(Rela{Offset: slotAddr(idx), Type: uint32(elf.R_X86_64_TPOFF64), Sym: uint32(sym.DynsymIdx)})
		}
	}

	for _, sym := range g.TlsgdSyms {
		if sym.IsPreemptible(ctx) {
			idx := sym.GetTlsgdIdx(ctx)
			ctx.RelDyn.Add(Rela{Offset: slotAddr(idx), Type: uint32(elf.R_X86_64_DTPMOD64), Sym: uint32(sym.DynsymIdx)})
			ctx.RelDyn.Add(Rela{Offset: slotAddr(idx + 1), Type: uint32(elf.R_X86_64_DTPOFF64), Sym: uint32(sym.DynsymIdx)})
		}
	}

	if g.TlsldIdx != -1 {
		ctx.RelDyn.Add(Rela{Offset: slotAddr(int32(g.TlsldIdx)), Type: uint32(elf.R_X86_64_DTPMOD64)})
	}
}
