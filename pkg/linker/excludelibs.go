package linker

import "path/filepath"

// ApplyExcludeLibs marks every archive member pulled from a library
// named by -exclude-libs (or every archive member at all, under
// -exclude-libs=ALL) so ComputeImportExport won't publish its
// definitions through .dynsym: an archive that happens to satisfy a
// reference internally shouldn't grow the shared object's exported ABI.
func ApplyExcludeLibs(ctx *Context) {
	if !ctx.Arg.ExcludeLibsAll && ctx.Arg.ExcludeLibs.Len() == 0 {
		return
	}

	for _, file := range ctx.Objs {
		if !file.IsInLib || file.ArchiveName == "" {
			continue
		}
		base := filepath.Base(file.ArchiveName)
		if ctx.Arg.ExcludeLibsAll || ctx.Arg.ExcludeLibs.Contains(base) {
			file.ExcludeLibs = true
		}
	}
}
