package linker

// EliminateComdats resolves every SHT_GROUP COMDAT section group across
// all input files down to a single surviving copy per signature, the
// way an inline function or template instantiation that several
// translation units emitted identically is meant to collapse to one.
// The first file (in link order, i.e. lowest Priority) to present a
// given signature wins; every other file's member sections for that
// signature are killed before RegisterSectionPieces or ScanRels ever
// see them.
func EliminateComdats(ctx *Context) {
	for _, file := range ctx.Objs {
		for _, group := range file.ComdatGroups {
			ref, ok := ctx.ComdatGroups[group.Signature]
			if !ok || file.Priority < ref.File.Priority {
				ctx.ComdatGroups[group.Signature] = &ComdatGroupRef{File: file}
			}
		}
	}

	for _, file := range ctx.Objs {
		for _, group := range file.ComdatGroups {
			ref := ctx.ComdatGroups[group.Signature]
			if ref.File == file {
				continue
			}
			for _, idx := range group.SecIndices {
				if int(idx) < len(file.Sections) && file.Sections[idx] != nil {
					file.Sections[idx].IsAlive = false
				}
			}
		}
	}
}
