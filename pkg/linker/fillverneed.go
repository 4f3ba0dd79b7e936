package linker

// FillVerneed pre-registers every DSO-imported versioned symbol's
// Vernaux entry, and interns the version strings into .dynstr, before
// any chunk's UpdateShdr runs. VersymSection.CopyBuf calls
// VerneedSection.Register too, but only after file offsets are already
// fixed; registering there first would grow .gnu.version_r and .dynstr
// past the sizes already baked into the layout. Running this pass
// first makes that later call a pure cache hit.
func FillVerneed(ctx *Context) {
	for _, sym := range ctx.Dynsym.Syms {
		if sym == nil || sym.DsoFile == nil || sym.VersionName == "" {
			continue
		}
		ctx.Verneed.Register(ctx, sym.DsoFile, sym)
		ctx.Dynstr.Add(sym.VersionName)
	}
}
