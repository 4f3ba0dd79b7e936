package linker

import (
	"debug/elf"

	"github.com/goldlink/goldlink/pkg/utils"
)

// DynamicSection is .dynamic: the table of tag/value pairs ld.so reads
// first, naming every other synthetic section it needs (dynstr, dynsym,
// hash tables, relocation tables) plus a DT_FLAGS entry (DF_SYMBOLIC)
// for -Bsymbolic links. DT_BIND_NOW is not emitted.
type DynamicSection struct {
	Chunk
}

func NewDynamicSection() *DynamicSection {
	d := &DynamicSection{Chunk: NewChunk()}
	d.Name = ".dynamic"
	d.Shdr.Type = uint32(elf.SHT_DYNAMIC)
	d.Shdr.Flags = uint64(elf.SHF_ALLOC | elf.SHF_WRITE)
	d.Shdr.AddrAlign = 8
	d.Shdr.EntSize = 16
	return d
}

func (d *DynamicSection) entries(ctx *Context) []Dyn {
	var out []Dyn
	add := func(tag, val int64) { out = append(out, Dyn{Tag: tag, Val: uint64(val)}) }

	for _, dso := range ctx.Dsos {
		add(DT_NEEDED, int64(ctx.Dynstr.Add(dso.Soname)))
	}

	if ctx.Arg.Soname != "" {
		add(DT_SONAME, int64(ctx.Dynstr.Add(ctx.Arg.Soname)))
	}

	if ctx.RelPlt != nil && len(ctx.RelPlt.Syms) > 0 {
		add(DT_PLTGOT, int64(ctx.GotPlt.Shdr.Addr))
		add(DT_PLTRELSZ, int64(ctx.RelPlt.Shdr.Size))
		add(DT_PLTREL, int64(elf.DT_RELA))
		add(DT_JMPREL, int64(ctx.RelPlt.Shdr.Addr))
	}

	if ctx.RelDyn != nil {
		add(DT_RELA, int64(ctx.RelDyn.Shdr.Addr))
		add(DT_RELASZ, int64(ctx.RelDyn.Shdr.Size))
		add(DT_RELAENT, 24)
	}

	if ctx.GnuHash != nil {
		add(DT_GNU_HASH, int64(ctx.GnuHash.Shdr.Addr))
	} else if ctx.Hash != nil {
		add(DT_HASH, int64(ctx.Hash.Shdr.Addr))
	}

	add(DT_STRTAB, int64(ctx.Dynstr.Shdr.Addr))
	add(DT_STRSZ, int64(ctx.Dynstr.Shdr.Size))
	add(DT_SYMTAB, int64(ctx.Dynsym.Shdr.Addr))
	add(DT_SYMENT, 24)

	if ctx.Verneed != nil && ctx.Verneed.Shdr.Size > 0 {
		add(DT_VERNEED, int64(ctx.Verneed.Shdr.Addr))
		add(DT_VERNEEDNUM, int64(ctx.Verneed.NumFiles()))
	}
	if ctx.Verdef != nil && ctx.Verdef.Shdr.Size > 0 {
		add(DT_VERDEF, int64(ctx.Verdef.Shdr.Addr))
		add(DT_VERDEFNUM, int64(ctx.Verdef.NumDefs()))
	}
	if ctx.Versym != nil {
		add(DT_VERSYM, int64(ctx.Versym.Shdr.Addr))
	}

	if ctx.Arg.Bsymbolic {
		add(DT_FLAGS, 0x8) // DF_SYMBOLIC
	}

	add(DT_NULL, 0)
	return out
}

func (d *DynamicSection) UpdateShdr(ctx *Context) {
	d.Shdr.Size = uint64(len(d.entries(ctx))) * 16
	d.Shdr.Link = uint32(ctx.Dynstr.Shndx)
}

func (d *DynamicSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[d.Shdr.Offset:]
	for i, dyn := range d.entries(ctx) {
		utils.Write[Dyn](buf[i*16:], dyn)
	}
}
