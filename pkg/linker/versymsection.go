package linker

import "github.com/goldlink/goldlink/pkg/utils"

// VersymSection is .gnu.version: one Elf64_Half per .dynsym entry giving
// its Verdef/Verneed index (§6). Entry 0 is always the null symbol's
// VER_NDX_LOCAL. VERSYM_HIDDEN marks a definition that exists only for
// backward compatibility with older binaries that resolved against it.
type VersymSection struct {
	Chunk
}

func NewVersymSection() *VersymSection {
	v := &VersymSection{Chunk: NewChunk()}
	v.Name = ".gnu.version"
	v.Shdr.Type = 0x6fffffff // SHT_GNU_versym
	v.Shdr.Flags = uint64(1) // SHF_ALLOC
	v.Shdr.EntSize = 2
	v.Shdr.AddrAlign = 2
	return v
}

func (v *VersymSection) UpdateShdr(ctx *Context) {
	v.Shdr.Size = uint64(len(ctx.Dynsym.Syms)) * 2
	v.Shdr.Link = uint32(ctx.Dynsym.Shndx)
}

func (v *VersymSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[v.Shdr.Offset:]
	for i, sym := range ctx.Dynsym.Syms {
		if sym == nil {
			// The null dynsym entry at index 0 always gets a null versym.
			utils.Write[uint16](buf[i*2:], uint16(0))
			continue
		}

		ndx := VER_NDX_GLOBAL
		switch {
		case sym.DsoFile != nil && sym.VersionName != "":
			// Vernaux references into a needed DSO never carry
			// VERSYM_HIDDEN; that bit only disambiguates between this
			// output's own multiple Verdef-side definitions.
			ndx = ctx.Verneed.Register(ctx, sym.DsoFile, sym)
		case sym.VerIdx != 0:
			ndx = sym.VerIdx
			if sym.VersionName != "" && !sym.VersionIsDefault {
				ndx |= VERSYM_HIDDEN
			}
		}

		utils.Write[uint16](buf[i*2:], ndx)
	}
}
