package linker

import "math/bits"

// ConvertCommonSymbols promotes every global symbol that resolved to a
// tentative (SHN_COMMON) definition into a real allocation in a
// synthetic ".bss" input section owned by the winning file, so every
// later pass can treat it exactly like an ordinary defined symbol
// instead of special-casing SHN_COMMON.
func ConvertCommonSymbols(ctx *Context) {
	for _, file := range ctx.Objs {
		if !file.IsAlive.Load() {
			continue
		}
		for i := file.FirstGlobal; i < int64(len(file.ElfSyms)); i++ {
			sym := file.Symbols[i]
			if sym.File != file {
				continue
			}
			esym := &file.ElfSyms[i]
			if !esym.IsCommon() {
				continue
			}

			align := esym.Val
			if align == 0 {
				align = 1
			}
			p2align := uint8(bits.TrailingZeros64(align))

			isec := NewSyntheticInputSection(ctx, file, ".bss", uint32(esym.Size), p2align)
			isec.IsAlive = true
			file.Sections = append(file.Sections, isec)

			sym.SetInputSection(isec)
			sym.Value = 0
		}
	}
}
