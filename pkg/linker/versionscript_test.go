package linker

import "testing"

func TestParseSymbolVersion(t *testing.T) {
	cases := []struct {
		raw         string
		name, ver   string
		wantDefault bool
	}{
		{"malloc", "malloc", "", false},
		{"malloc@GLIBC_2.2.5", "malloc", "GLIBC_2.2.5", false},
		{"malloc@@GLIBC_2.2.5", "malloc", "GLIBC_2.2.5", true},
	}
	for _, c := range cases {
		name, ver, isDefault := ParseSymbolVersion(c.raw)
		if name != c.name || ver != c.ver || isDefault != c.wantDefault {
			t.Errorf("ParseSymbolVersion(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.raw, name, ver, isDefault, c.name, c.ver, c.wantDefault)
		}
	}
}

func TestParseVersionScriptText(t *testing.T) {
	text := `
GOLDLINK_1.0 {
  global: foo_*, bar;
  local: *;
};
`
	blocks := parseVersionScriptText(text)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	b := blocks[0]
	if b.name != "GOLDLINK_1.0" {
		t.Errorf("block name = %q, want GOLDLINK_1.0", b.name)
	}
	if len(b.globals) != 2 || b.globals[0] != "foo_*" || b.globals[1] != "bar" {
		t.Errorf("globals = %v, want [foo_* bar]", b.globals)
	}
	if len(b.locals) != 1 || b.locals[0] != "*" {
		t.Errorf("locals = %v, want [*]", b.locals)
	}
}

func TestParseVersionScriptTextAnonymousBlock(t *testing.T) {
	blocks := parseVersionScriptText(`{ global: exported_symbol; };`)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].name != "GOLDLINK_ANON" {
		t.Errorf("anonymous block name = %q, want GOLDLINK_ANON", blocks[0].name)
	}
	if len(blocks[0].globals) != 1 || blocks[0].globals[0] != "exported_symbol" {
		t.Errorf("globals = %v, want [exported_symbol]", blocks[0].globals)
	}
}
