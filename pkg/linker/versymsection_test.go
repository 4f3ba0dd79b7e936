package linker

import "testing"

func TestVersymCopyBufNullEntryAndHidden(t *testing.T) {
	ctx := NewContext()
	ctx.Verneed = NewVerneedSection()

	defSym := NewSymbol("f")
	defSym.VerIdx = 2

	hiddenSym := NewSymbol("g")
	hiddenSym.VerIdx = 2
	hiddenSym.VersionName = "V1"
	hiddenSym.VersionIsDefault = false

	ctx.Dynsym = NewDynsymSection()
	ctx.Dynsym.Syms = []*Symbol{nil, defSym, hiddenSym}

	v := NewVersymSection()
	v.Shdr.Offset = 0
	ctx.Buf = make([]byte, 6)

	v.CopyBuf(ctx)

	get := func(i int) uint16 {
		return uint16(ctx.Buf[i*2]) | uint16(ctx.Buf[i*2+1])<<8
	}

	if got := get(0); got != 0 {
		t.Errorf("versym[0] = %d, want 0 (null entry)", got)
	}
	if got := get(1); got != 2 {
		t.Errorf("versym[1] = %d, want 2 (default version, no HIDDEN)", got)
	}
	if got := get(2); got != 2|VERSYM_HIDDEN {
		t.Errorf("versym[2] = %#x, want %#x (non-default version, HIDDEN set)", got, 2|VERSYM_HIDDEN)
	}
}
