package linker

import (
	"sync"

	"github.com/goldlink/goldlink/pkg/diag"
	"github.com/goldlink/goldlink/pkg/linker/target"
	"github.com/goldlink/goldlink/pkg/log"
	"github.com/goldlink/goldlink/pkg/utils"
)

// ContextArg holds every command-line-derived linker option. It grew from
// the teacher's four fields (Output, Emulation, LibraryPaths) into the
// full set a dynamic ELF linker needs; parsing stays the teacher's
// hand-rolled dashes/readArg/readFlag style in the main package.
type ContextArg struct {
	Output    string
	Emulation MachineType

	LibraryPaths []string

	Static         bool
	Shared         bool
	ExportDynamic  bool
	ExcludeLibsAll bool
	ExcludeLibs    utils.MapSet[string]

	Undefined []string

	DynamicLinker string
	Soname        string

	BuildId      bool
	EhFrameHdr   bool
	HashStyleSysv bool
	HashStyleGnu  bool

	VersionScripts []string

	Bsymbolic          bool
	BsymbolicFunctions bool

	ImageBase  uint64
	GcSections bool

	TimeReport bool
	DumpPlt    bool

	LogFile    string
	LogVerbose bool
}

// Context is the single mutable value threaded through every pass,
// mirroring the teacher's design of Context-as-shared-worklist rather
// than per-pass return values.
type Context struct {
	Arg ContextArg

	Log   log.Logger
	Diag  *diag.Sink
	Timer *diag.Timer

	Target target.Target

	SymbolMap   map[string]*Symbol
	symbolMapMu sync.Mutex

	SymbolsAux []SymbolAux

	Ehdr *OutputEhdr
	Shdr *OutputShdr
	Phdr *OutputPhdr
	Got  *GotSection

	Plt       *PltSection
	PltGot    *PltGotSection
	GotPlt    *GotPltSection
	RelPlt    *RelPltSection
	RelDyn    *RelDynSection
	Dynsym    *DynsymSection
	Dynstr    *DynstrSection
	Dynamic   *DynamicSection
	Interp    *InterpSection
	BuildId   *BuildIdSection
	Hash      *HashSection
	GnuHash   *GnuHashSection
	EhFrame   *EhFrameSection
	EhFrameHdr *EhFrameHdrSection
	Verdef    *VerdefSection
	Verneed   *VerneedSection
	Versym    *VersymSection
	Dynbss    *DynbssSection
	DynbssRelro *DynbssSection
	Symtab    *SymtabSection
	Strtab    *StrtabSection
	Shstrtab  *ShstrtabSection

	Buf []byte

	FilePriority int64
	Visited      utils.MapSet[string]

	Objs []*ObjectFile
	Dsos []*SharedFile

	InternalObj   *ObjectFile
	InternalEsyms []Sym

	Chunks []Chunker

	MergedSections []*MergedSection
	OutputSections []*OutputSection

	ComdatGroups map[string]*ComdatGroupRef

	VersionPatterns []VersionPattern

	DefaultVersion uint16

	TpAddr uint64

	__InitArrayStart    *Symbol
	__InitArrayEnd      *Symbol
	__FiniArrayStart    *Symbol
	__FiniArrayEnd      *Symbol
	__PreinitArrayStart *Symbol
	__PreinitArrayEnd   *Symbol
	__BssStart          *Symbol
	__Ehdr_start        *Symbol
	__Etext             *Symbol
	__Edata             *Symbol
	__End               *Symbol
}

func NewContext() *Context {
	return &Context{
		Arg: ContextArg{
			Emulation:     MachineTypeNone,
			Output:        "a.out",
			ImageBase:     ImageBase,
			HashStyleSysv: true,
			ExcludeLibs:   utils.NewMapSet[string](),
		},
		Log:            log.Root(),
		Diag:           &diag.Sink{},
		Timer:          &diag.Timer{},
		Target:         target.X8664{},
		SymbolMap:      make(map[string]*Symbol),
		Visited:        utils.NewMapSet[string](),
		ComdatGroups:   make(map[string]*ComdatGroupRef),
		FilePriority:   10000,
		DefaultVersion: VER_NDX_GLOBAL,
	}
}

// GetOrCreateSymbol returns the interned Symbol for name, creating an
// undefined placeholder the first time it is seen. Access is
// mutex-guarded because resolve_obj_symbols and resolve_dso_symbols
// walk files concurrently via pkg/parallel.
func (ctx *Context) GetOrCreateSymbol(name string) *Symbol {
	ctx.symbolMapMu.Lock()
	defer ctx.symbolMapMu.Unlock()

	if sym, ok := ctx.SymbolMap[name]; ok {
		return sym
	}
	sym := NewSymbol(name)
	ctx.SymbolMap[name] = sym
	return sym
}
