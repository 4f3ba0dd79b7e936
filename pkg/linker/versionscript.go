package linker

import (
	"bufio"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/goldlink/goldlink/pkg/diag"
)

// ParseSymbolVersion splits an object-file symbol's spelling into its
// base name and an optional version tag, following the two GNU
// conventions: "name@ver" (a non-default, explicitly numbered version,
// used when defining several ABI-versioned copies of the same symbol)
// and "name@@ver" (the default version dynamic symbol resolution picks
// when a reference names the symbol with no tag at all).
func ParseSymbolVersion(raw string) (name, version string, isDefault bool) {
	if i := strings.Index(raw, "@@"); i != -1 {
		return raw[:i], raw[i+2:], true
	}
	if i := strings.Index(raw, "@"); i != -1 {
		return raw[:i], raw[i+1:], false
	}
	return raw, "", false
}

// VersionPattern binds one glob pattern from a version script's
// global/local list to the Verdef index its version block was assigned,
// or to VER_NDX_LOCAL for a "local:" pattern.
type VersionPattern struct {
	VersionName string
	Ndx         uint16
	Pattern     glob.Glob
	Raw         string
	IsLocal     bool
}

type versionScriptBlock struct {
	name    string
	globals []string
	locals  []string
}

// parseVersionScriptText implements the subset of GNU ld's version
// script grammar this linker needs: a sequence of
//
//	TAG { global: pattern, ...; local: pattern, ...; };
//
// blocks. Base-version inheritance ("TAG2 { ... } TAG1;") and the
// extern "C++" demangled-pattern syntax are both out of scope; see
// DESIGN.md.
func parseVersionScriptText(text string) []versionScriptBlock {
	var blocks []versionScriptBlock

	// Split on '}' to get each block's header+body, then split the
	// header (before '{') from the body.
	for _, chunk := range strings.Split(text, "}") {
		openIdx := strings.Index(chunk, "{")
		if openIdx == -1 {
			continue
		}
		header := strings.TrimSpace(chunk[:openIdx])
		header = strings.TrimSuffix(header, ";")
		name := strings.TrimSpace(header)
		if name == "" {
			name = "GOLDLINK_ANON"
		}

		body := chunk[openIdx+1:]
		block := versionScriptBlock{name: name}
		section := "global"

		for _, stmt := range strings.Split(body, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if strings.HasPrefix(stmt, "global:") {
				section = "global"
				stmt = strings.TrimSpace(strings.TrimPrefix(stmt, "global:"))
				if stmt == "" {
					continue
				}
			} else if strings.HasPrefix(stmt, "local:") {
				section = "local"
				stmt = strings.TrimSpace(strings.TrimPrefix(stmt, "local:"))
				if stmt == "" {
					continue
				}
			}

			for _, pat := range strings.Split(stmt, ",") {
				pat = strings.TrimSpace(pat)
				if pat == "" {
					continue
				}
				if section == "local" {
					block.locals = append(block.locals, pat)
				} else {
					block.globals = append(block.globals, pat)
				}
			}
		}

		blocks = append(blocks, block)
	}

	return blocks
}

// ApplyVersionScript reads every -version-script file named in
// ctx.Arg.VersionScripts, assigns each named version tag the next
// Verdef index (starting at VER_NDX_LAST_RESERVED+1), and marks every
// symbol whose name matches a pattern with the corresponding VerIdx. A
// bare "local: *;" pattern (the common "hide everything else" idiom)
// sets VER_NDX_LOCAL instead, which excludes the symbol from Export
// regardless of visibility.
func ApplyVersionScript(ctx *Context) {
	nextNdx := uint16(VER_NDX_LAST_RESERVED + 1)

	for _, path := range ctx.Arg.VersionScripts {
		f, err := os.Open(path)
		if err != nil {
			ctx.Diag.Add(diag.Warning, path, "cannot open version script: %v", err)
			continue
		}

		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		var sb strings.Builder
		for sc.Scan() {
			sb.WriteString(sc.Text())
			sb.WriteByte('\n')
		}
		f.Close()

		for _, block := range parseVersionScriptText(sb.String()) {
			ndx := nextNdx
			nextNdx++
			for _, pat := range block.globals {
				g, err := glob.Compile(pat)
				if err != nil {
					continue
				}
				ctx.VersionPatterns = append(ctx.VersionPatterns,
					VersionPattern{VersionName: block.name, Ndx: ndx, Pattern: g, Raw: pat})
			}
			for _, pat := range block.locals {
				g, err := glob.Compile(pat)
				if err != nil {
					continue
				}
				ctx.VersionPatterns = append(ctx.VersionPatterns,
					VersionPattern{VersionName: block.name, Ndx: VER_NDX_LOCAL, Pattern: g, Raw: pat, IsLocal: true})
			}
		}
	}

	if len(ctx.VersionPatterns) == 0 {
		return
	}

	for name, sym := range ctx.SymbolMap {
		if sym.File == nil {
			continue
		}
		if sym.VersionName != "" {
			matched := false
			for _, vp := range ctx.VersionPatterns {
				if vp.VersionName == sym.VersionName {
					sym.VerIdx = vp.Ndx
					matched = true
					break
				}
			}
			if !matched {
				ctx.Diag.Add(diag.UnknownVersion, sym.File.File.Name,
					"unknown version %s for symbol %s", sym.VersionName, name)
			}
			continue
		}
		for _, vp := range ctx.VersionPatterns {
			if vp.Pattern.Match(name) {
				sym.VerIdx = vp.Ndx
			}
		}
	}
}
