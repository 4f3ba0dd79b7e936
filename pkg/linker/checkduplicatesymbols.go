package linker

import "github.com/goldlink/goldlink/pkg/diag"

// CheckDuplicateSymbols reports a strong symbol defined by two distinct
// live files at the same resolution rank: rank.go's GetRank only ever
// picks one winner, so a genuine multiple-definition error would
// otherwise pass through resolve_obj_symbols silently.
func CheckDuplicateSymbols(ctx *Context) {
	for _, file := range ctx.Objs {
		if !file.IsAlive.Load() || file == ctx.InternalObj {
			continue
		}

		for i := file.FirstGlobal; i < int64(len(file.ElfSyms)); i++ {
			esym := &file.ElfSyms[i]
			if esym.IsUndef() || esym.IsCommon() || esym.IsWeak() {
				continue
			}

			sym := file.Symbols[i]
			if sym.File == nil || sym.File == file {
				continue
			}

			winnerRank := GetRank(sym.File, sym.ElfSym(), !sym.File.IsAlive.Load())
			candidateRank := GetRank(file, esym, false)
			if winnerRank == candidateRank {
				ctx.Diag.Add(diag.DuplicateSymbol, file.File.Name,
					"duplicate symbol '%s' also defined in %s", sym.Name, sym.File.File.Name)
			}
		}
	}
}
