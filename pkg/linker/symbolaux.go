package linker

// SymbolAux holds the per-symbol synthetic-section slot indices that
// scan_rels assigns. It lives in a flat ctx.SymbolsAux slice rather than
// inline on Symbol so that Symbol.Clear (called on a dead archive
// member's symbols after the liveness closure) never has to touch it: the aux slot is
// allocated once per interned name and never reused across files.
type SymbolAux struct {
	GotIdx     int32
	GotTpIdx   int32
	TlsgdIdx   int32
	TlsdescIdx int32
	PltIdx     int32
	PltGotIdx  int32
	CopyrelIdx int32
}

func NewSymbolAux() SymbolAux {
	return SymbolAux{
		GotIdx:     -1,
		GotTpIdx:   -1,
		TlsgdIdx:   -1,
		TlsdescIdx: -1,
		PltIdx:     -1,
		PltGotIdx:  -1,
		CopyrelIdx: -1,
	}
}
