package linker

// FillVerdef populates .gnu.version_d from the version tags a version
// script assigned. ApplyVersionScript only records each tag's Ndx on
// the symbols it matches; this pass turns the (Ndx, name) pairs
// recorded in ctx.VersionPatterns into the dense, Ndx-ordered Names
// slice VerdefSection.CopyBuf walks.
func FillVerdef(ctx *Context) {
	if len(ctx.VersionPatterns) == 0 {
		return
	}

	names := make(map[uint16]string)
	maxNdx := uint16(VER_NDX_LAST_RESERVED)
	for _, vp := range ctx.VersionPatterns {
		if vp.IsLocal || vp.Ndx <= VER_NDX_LAST_RESERVED {
			continue
		}
		names[vp.Ndx] = vp.VersionName
		if vp.Ndx > maxNdx {
			maxNdx = vp.Ndx
		}
	}
	if len(names) == 0 {
		return
	}

	out := make([]string, maxNdx-VER_NDX_LAST_RESERVED)
	for ndx, name := range names {
		out[ndx-VER_NDX_LAST_RESERVED-1] = name
	}
	ctx.Verdef.Names = out
}
