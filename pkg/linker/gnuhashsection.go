package linker

import (
	"debug/elf"

	"github.com/goldlink/goldlink/pkg/utils"
)

// GnuHashSection is .gnu.hash (DT_GNU_HASH): the GNU extension hash
// table, smaller and faster to probe than the SysV .hash it usually
// replaces. It requires every exported dynamic symbol to be sorted to
// the tail of .dynsym in ascending bucket order, which PopulateSymtab
// arranges before this section is sized.
type GnuHashSection struct {
	Chunk
	numBuckets  uint32
	symOffset   uint32
	bloomShift  uint32
	bloomSize   uint32
}

func NewGnuHashSection() *GnuHashSection {
	g := &GnuHashSection{Chunk: NewChunk(), bloomShift: 26, bloomSize: 1}
	g.Name = ".gnu.hash"
	g.Shdr.Type = uint32(0x6ffffff6) // SHT_GNU_HASH
	g.Shdr.Flags = uint64(elf.SHF_ALLOC)
	g.Shdr.AddrAlign = 8
	return g
}

func (g *GnuHashSection) exportedSyms(ctx *Context) []*Symbol {
	var out []*Symbol
	for _, sym := range ctx.Dynsym.Syms {
		if sym != nil && !sym.IsImported {
			out = append(out, sym)
		}
	}
	return out
}

func (g *GnuHashSection) UpdateShdr(ctx *Context) {
	syms := g.exportedSyms(ctx)
	g.numBuckets = uint32(len(syms))
	if g.numBuckets == 0 {
		g.numBuckets = 1
	}
	g.symOffset = uint32(len(ctx.Dynsym.Syms)) - uint32(len(syms))
	g.Shdr.Size = uint64(4*4) + uint64(g.bloomSize)*8 + uint64(g.numBuckets)*4 + uint64(len(syms))*4
	g.Shdr.Link = uint32(ctx.Dynsym.Shndx)
}

func (g *GnuHashSection) CopyBuf(ctx *Context) {
	syms := g.exportedSyms(ctx)
	buf := ctx.Buf[g.Shdr.Offset:]

	utils.Write[uint32](buf[0:], g.numBuckets)
	utils.Write[uint32](buf[4:], g.symOffset)
	utils.Write[uint32](buf[8:], g.bloomSize)
	utils.Write[uint32](buf[12:], g.bloomShift)

	bloom := buf[16:]
	buckets := bloom[g.bloomSize*8:]
	chains := buckets[g.numBuckets*4:]

	for i, sym := range syms {
		h := gnuHash(sym.Name)
		bucket := h % g.numBuckets
		if utils.Read[uint32](buckets[bucket*4:]) == 0 {
			utils.Write[uint32](buckets[bucket*4:], uint32(i)+g.symOffset)
		}

		last := uint32(0)
		if i == len(syms)-1 || gnuHash(syms[i+1].Name)%g.numBuckets != bucket {
			last = 1
		}
		utils.Write[uint32](chains[i*4:], (h&^1)|last)
	}
}
