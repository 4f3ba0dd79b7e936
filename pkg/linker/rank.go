package linker

import "debug/elf"

func GetRank(file *ObjectFile, esym *Sym, isLazy bool) uint64 {
	if esym.IsCommon() {
		if isLazy {
			return (6 << 24) + uint64(file.Priority)
		}

		return (5 << 24) + uint64(file.Priority)
	}

	isWeak := esym.Bind() == uint8(elf.STB_WEAK)
	if isLazy {
		if isWeak {
			return (4 << 24) + uint64(file.Priority)
		}
		return (3 << 24) + uint64(file.Priority)
	}
	if isWeak {
		return (2 << 24) + uint64(file.Priority)
	}
	return (1 << 24) + uint64(file.Priority)
}

// GetDsoRank ranks a shared-library definition the same as an archive
// member: it only wins a resolution if nothing already extracted from
// an object file or archive defines the symbol.
func GetDsoRank(file *SharedFile, isWeak bool) uint64 {
	if isWeak {
		return (4 << 24) + uint64(file.Priority)
	}
	return (3 << 24) + uint64(file.Priority)
}
