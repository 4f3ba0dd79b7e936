package linker

import (
	"debug/elf"
	"sync"
)

// Per-symbol NEEDS_* flags, set during scan_rels and consumed while
// sizing and populating the synthetic sections (§4.12).
const (
	NEEDS_GOT     uint32 = 1 << 0
	NEEDS_PLT     uint32 = 1 << 1
	NEEDS_GOTGOT  uint32 = 1 << 2
	NEEDS_GOTTP   uint32 = 1 << 3
	NEEDS_TLSGD   uint32 = 1 << 4
	NEEDS_TLSLD   uint32 = 1 << 5
	NEEDS_TLSDESC uint32 = 1 << 6
	NEEDS_COPYREL uint32 = 1 << 7
	NEEDS_DYNSYM  uint32 = 1 << 8
	NEEDS_DYNREL  uint32 = 1 << 9
)

// Symbol is the interned, file-independent resolution target for a
// name. Concurrent resolve_obj_symbols/resolve_dso_symbols workers race
// to install a definition into it, so those resolution writes (File,
// DsoFile, Value, IsWeak and the rest of the winning definition) are
// made under Mu.
type Symbol struct {
	Mu sync.Mutex

	File    *ObjectFile
	DsoFile *SharedFile

	InputSection    *InputSection
	OutputSection   Chunker
	SectionFragment *SectionFragment

	Value uint64
	Name  string

	SymIdx int32
	AuxIdx int32
	VerIdx uint16

	DynsymIdx int32

	Flags      uint32
	Visibility uint8

	IsWeak          bool
	IsExported      bool
	IsImported      bool
	IsUndefWeak     bool
	HasCopyRel      bool
	CopyRelReadonly bool

	// VersionName holds the "@ver" suffix stripped from the symbol's
	// spelling in an object file, e.g. "malloc@GLIBC_2.2.5".
	VersionName string

	// VersionIsDefault records whether VersionName came from the "@@"
	// form. A single-"@" version is a non-default alias: its versym
	// entry gets VERSYM_HIDDEN OR'd in so an unversioned reference never
	// resolves to it. Symbols with no VersionName leave this true,
	// which is a no-op since VERSYM_HIDDEN is only ever applied when
	// VersionName is set.
	VersionIsDefault bool
}

func NewSymbol(name string) *Symbol {
	s := &Symbol{
		Name:             name,
		SymIdx:           -1,
		AuxIdx:           -1,
		DynsymIdx:        -1,
		Visibility:       uint8(elf.STV_DEFAULT),
		VersionIsDefault: true,
	}
	return s
}

func GetSymbolByName(ctx *Context, name string) *Symbol {
	return ctx.GetOrCreateSymbol(name)
}

func (s *Symbol) SetInputSection(isec *InputSection) {
	s.InputSection = isec
	s.OutputSection = nil
	s.SectionFragment = nil
}
func (s *Symbol) SetOutputSection(osec Chunker) {
	s.InputSection = nil
	s.OutputSection = osec
	s.SectionFragment = nil
}
func (s *Symbol) SetSectionFragment(frag *SectionFragment) {
	s.InputSection = nil
	s.OutputSection = nil
	s.SectionFragment = frag
}

func (s *Symbol) GetGotIdx(ctx *Context) int32 {
	if s.AuxIdx == -1 {
		return -1
	}
	return ctx.SymbolsAux[s.AuxIdx].GotIdx
}

func (s *Symbol) GetGotTpIdx(ctx *Context) int32 {
	if s.AuxIdx == -1 {
		return -1
	}
	return ctx.SymbolsAux[s.AuxIdx].GotTpIdx
}

func (s *Symbol) GetTlsgdIdx(ctx *Context) int32 {
	if s.AuxIdx == -1 {
		return -1
	}
	return ctx.SymbolsAux[s.AuxIdx].TlsgdIdx
}

func (s *Symbol) GetTlsdescIdx(ctx *Context) int32 {
	if s.AuxIdx == -1 {
		return -1
	}
	return ctx.SymbolsAux[s.AuxIdx].TlsdescIdx
}

func (s *Symbol) GetPltIdx(ctx *Context) int32 {
	if s.AuxIdx == -1 {
		return -1
	}
	return ctx.SymbolsAux[s.AuxIdx].PltIdx
}

func (s *Symbol) GetPltGotIdx(ctx *Context) int32 {
	if s.AuxIdx == -1 {
		return -1
	}
	return ctx.SymbolsAux[s.AuxIdx].PltGotIdx
}

func (s *Symbol) GetCopyrelIdx(ctx *Context) int32 {
	if s.AuxIdx == -1 {
		return -1
	}
	return ctx.SymbolsAux[s.AuxIdx].CopyrelIdx
}

func (s *Symbol) SetGotIdx(ctx *Context, idx int32)     { ctx.SymbolsAux[s.AuxIdx].GotIdx = idx }
func (s *Symbol) SetGotTpIdx(ctx *Context, idx int32)   { ctx.SymbolsAux[s.AuxIdx].GotTpIdx = idx }
func (s *Symbol) SetTlsgdIdx(ctx *Context, idx int32)   { ctx.SymbolsAux[s.AuxIdx].TlsgdIdx = idx }
func (s *Symbol) SetTlsdescIdx(ctx *Context, idx int32) { ctx.SymbolsAux[s.AuxIdx].TlsdescIdx = idx }
func (s *Symbol) SetPltIdx(ctx *Context, idx int32)     { ctx.SymbolsAux[s.AuxIdx].PltIdx = idx }
func (s *Symbol) SetPltGotIdx(ctx *Context, idx int32)  { ctx.SymbolsAux[s.AuxIdx].PltGotIdx = idx }
func (s *Symbol) SetCopyrelIdx(ctx *Context, idx int32) { ctx.SymbolsAux[s.AuxIdx].CopyrelIdx = idx }

func (s *Symbol) ElfSym() *Sym {
	return &s.File.ElfSyms[s.SymIdx]
}

// IsRelocatable reports whether the symbol resolved to something with an
// address at all (an object-file definition, not a DSO import).
func (s *Symbol) IsRelocatable() bool {
	return s.File != nil
}

func (s *Symbol) GetAddr(ctx *Context) uint64 {
	if s.HasCopyRel {
		return s.OutputSection.(*DynbssSection).GetAddr() + s.Value
	}

	if s.SectionFragment != nil {
		if !s.SectionFragment.IsAlive {
			return 0
		}
		return s.SectionFragment.GetAddr() + s.Value
	}

	if s.InputSection == nil {
		return s.Value
	}

	if !s.InputSection.IsAlive {
		return 0
	}

	return s.InputSection.GetAddr() + s.Value
}

func (s *Symbol) GetGotAddr(ctx *Context) uint64 {
	return ctx.Got.Shdr.Addr + uint64(s.GetGotIdx(ctx))*8
}

func (s *Symbol) GetGotTpAddr(ctx *Context) uint64 {
	return ctx.Got.Shdr.Addr + uint64(s.GetGotTpIdx(ctx))*8
}

func (s *Symbol) GetTlsgdAddr(ctx *Context) uint64 {
	return ctx.Got.Shdr.Addr + uint64(s.GetTlsgdIdx(ctx))*8
}

func (s *Symbol) GetPltAddr(ctx *Context) uint64 {
	idx := s.GetPltIdx(ctx)
	if idx == -1 {
		return 0
	}
	return ctx.Plt.Shdr.Addr + uint64(ctx.Target.PltHeaderSize()) + uint64(idx)*uint64(ctx.Target.PltEntrySize())
}

// IsPreemptible reports whether a dynamic linker could resolve this
// symbol to a definition in a different, later-loaded object, i.e.
// whether direct references to it must go through the GOT/PLT rather
// than a link-time constant.
func (s *Symbol) IsPreemptible(ctx *Context) bool {
	if s.DsoFile != nil {
		return true
	}
	if s.File == nil {
		return false
	}
	return ctx.Arg.Shared && s.IsExported && s.Visibility == uint8(elf.STV_DEFAULT)
}

func (s *Symbol) Clear() {
	s.File = nil
	s.DsoFile = nil
	s.SectionFragment = nil
	s.OutputSection = nil
	s.InputSection = nil
	s.SymIdx = -1
	s.VerIdx = 0
	s.IsWeak = false
	s.IsExported = false
	s.IsImported = false
}

func (s *Symbol) GetRank() uint64 {
	if s.File == nil {
		if s.DsoFile == nil {
			return 7 << 24
		}
		return GetDsoRank(s.DsoFile, s.IsWeak)
	}
	return GetRank(s.File, s.ElfSym(), !s.File.IsAlive.Load())
}
