package linker

import (
	"debug/elf"
	"math"
	"sort"
	"strings"

	"github.com/goldlink/goldlink/pkg/parallel"
	"github.com/goldlink/goldlink/pkg/utils"
)

// CreateInternalFile installs the linker's own synthetic object file,
// the home for every symbol this program defines itself
// (__init_array_start and friends) rather than reads from an input.
func CreateInternalFile(ctx *Context) {
	obj := &ObjectFile{}
	ctx.InternalObj = obj
	ctx.Objs = append(ctx.Objs, obj)

	ctx.InternalEsyms = make([]Sym, 1)
	obj.Symbols = append(obj.Symbols, NewSymbol(""))
	obj.FirstGlobal = 1
	obj.IsAlive.Store(true)
	obj.Priority = 1

	obj.ElfSyms = ctx.InternalEsyms
}

// SetFilePriority assigns the total order symbol resolution ties break
// against: non-archive objects first (lowest Priority, so they always
// beat an archive member offering the same symbol), archive members
// next in command-line order, and DSOs last, so an object file's own
// definition always outranks a shared library's.
func SetFilePriority(ctx *Context) {
	priority := int64(1)

	assign := func() {
		for _, file := range ctx.Objs {
			if !file.IsInLib {
				file.Priority = uint32(priority)
				priority++
			}
		}
		for _, file := range ctx.Objs {
			if file.IsInLib {
				file.Priority = uint32(priority)
				priority++
			}
		}
		for _, dso := range ctx.Dsos {
			dso.Priority = uint32(priority)
			priority++
		}
	}
	assign()
	ctx.FilePriority = priority
}

// ResolveSymbols runs the object-file resolution three-phase shape: an
// initial lazy pass to see which symbols any object could satisfy, a
// liveness closure that pulls in every archive member something live
// actually references, then a final pass restricted to the files that
// closure kept, since a dead archive member's tentative "win" from the
// first pass must not stick.
func ResolveSymbols(ctx *Context) {
	parallel.ForEach(ctx.Objs, func(file *ObjectFile) {
		file.ResolveSymbols(ctx)
	})

	MarkLiveObjects(ctx)

	var live, dead []*ObjectFile
	for _, file := range ctx.Objs {
		if file.IsAlive.Load() {
			live = append(live, file)
		} else {
			dead = append(dead, file)
		}
	}
	parallel.ForEach(dead, func(file *ObjectFile) {
		file.ClearSymbols()
	})

	parallel.ForEach(live, func(file *ObjectFile) {
		file.ResolveSymbols(ctx)
	})

	ctx.Objs = live
}

// MarkLiveObjects runs the archive-liveness closure through a bounded
// feeder: a file only ever enters the worklist once, the instant its
// atomic IsAlive flag flips from false to true, so concurrently
// discovered references to the same archive member don't double-admit
// it.
func MarkLiveObjects(ctx *Context) {
	var roots []*ObjectFile
	for _, file := range ctx.Objs {
		if file.IsAlive.Load() {
			roots = append(roots, file)
		}
	}
	utils.Assert(len(roots) > 0)

	var feeder *parallel.Feeder[*ObjectFile]
	feeder = parallel.NewFeeder(parallel.Workers, roots, func(file *ObjectFile, f *parallel.Feeder[*ObjectFile]) {
		file.MarkLiveObjects(ctx, func(o *ObjectFile) {
			f.Add(o)
		})
	})
	feeder.Wait()
}

// ResolveDsoSymbols lets every shared library claim the symbols it
// exports that nothing stronger already resolved, then drops any DSO
// whose export set nothing in the final symbol table actually points
// at: a -l flag naming a library nothing references shouldn't grow the
// output's DT_NEEDED list.
func ResolveDsoSymbols(ctx *Context) {
	parallel.ForEach(ctx.Dsos, func(dso *SharedFile) {
		dso.ResolveSymbols(ctx)
	})

	referenced := make(map[*SharedFile]bool)
	for _, sym := range ctx.SymbolMap {
		if sym.DsoFile != nil {
			referenced[sym.DsoFile] = true
		}
	}

	ctx.Dsos = utils.RemoveIf[*SharedFile](ctx.Dsos, func(dso *SharedFile) bool {
		return !referenced[dso]
	})
}

func RegisterSectionPieces(ctx *Context) {
	parallel.ForEach(ctx.Objs, func(file *ObjectFile) {
		file.RegisterSectionPieces()
	})
}

// ComputeImportExport marks every symbol this link must publish through
// .dynsym: a file's own exported definitions (ObjectFile.ComputeImportExport),
// plus every symbol a shared library actually satisfied (an imported
// reference), plus -Bsymbolic's narrowing of which exported definitions
// remain preemptible.
func ComputeImportExport(ctx *Context) {
	// A non-shared link still has to export back into .dynsym any of
	// its own definitions that an input DSO references, so the dynamic
	// linker can bind the DSO's undef to it at load time.
	if !ctx.Arg.Shared {
		for _, dso := range ctx.Dsos {
			for _, sym := range dso.Undefs {
				if sym.File == nil || sym.Visibility == uint8(elf.STV_HIDDEN) {
					continue
				}
				sym.IsExported = true
			}
		}
	}

	if ctx.Arg.Shared || ctx.Arg.ExportDynamic {
		parallel.ForEach(ctx.Objs, func(file *ObjectFile) {
			file.ComputeImportExport(ctx)
		})
	}

	for _, sym := range ctx.SymbolMap {
		if sym.DsoFile != nil {
			sym.IsImported = true
		}
	}

	if ctx.Arg.Bsymbolic || ctx.Arg.BsymbolicFunctions {
		for _, sym := range ctx.SymbolMap {
			if !sym.IsExported || sym.File == nil {
				continue
			}
			isFunc := sym.ElfSym().Type() == uint8(elf.STT_FUNC)
			if ctx.Arg.Bsymbolic || (ctx.Arg.BsymbolicFunctions && isFunc) {
				sym.Visibility = uint8(elf.STV_PROTECTED)
			}
		}
	}
}

func ComputeMergedSectionSizes(ctx *Context) {
	for _, file := range ctx.Objs {
		for _, m := range file.MergeableSections {
			if m == nil {
				continue
			}
			for _, frag := range m.Fragments {
				frag.IsAlive = true
			}
		}
	}

	AddCommentString(ctx)

	for _, sec := range ctx.MergedSections {
		sec.AssignOffsets()
	}
}

// CreateSyntheticSections allocates every fixed synthetic chunk this
// link might need. A DSO/PLT/version chunk that ends up empty is
// dropped later, once ctx.Chunks is filtered by size in the driver, so
// it is harmless to always allocate them here; only interp/build-id/
// eh_frame_hdr/hash-style are conditioned on the corresponding
// command-line option since those are opt-in features rather than
// always-present tables.
func CreateSyntheticSections(ctx *Context) {
	push := func(chunk Chunker) Chunker {
		ctx.Chunks = append(ctx.Chunks, chunk)
		return chunk
	}

	ctx.Ehdr = push(NewOutputEhdr()).(*OutputEhdr)
	ctx.Phdr = push(NewOutputPhdr()).(*OutputPhdr)
	ctx.Shdr = push(NewOutputShdr()).(*OutputShdr)

	ctx.Got = push(NewGotSection()).(*GotSection)
	ctx.GotPlt = push(NewGotPltSection()).(*GotPltSection)
	ctx.Plt = push(NewPltSection()).(*PltSection)
	ctx.PltGot = push(NewPltGotSection()).(*PltGotSection)

	ctx.Dynstr = push(NewDynstrSection()).(*DynstrSection)
	ctx.Dynsym = push(NewDynsymSection()).(*DynsymSection)
	ctx.RelDyn = push(NewRelDynSection()).(*RelDynSection)
	ctx.RelPlt = push(NewRelPltSection()).(*RelPltSection)
	ctx.Dynamic = push(NewDynamicSection()).(*DynamicSection)
	ctx.Dynbss = push(NewDynbssSection()).(*DynbssSection)

	if ctx.Arg.HashStyleSysv {
		ctx.Hash = push(NewHashSection()).(*HashSection)
	}
	if ctx.Arg.HashStyleGnu {
		ctx.GnuHash = push(NewGnuHashSection()).(*GnuHashSection)
	}

	ctx.Versym = push(NewVersymSection()).(*VersymSection)
	ctx.Verdef = push(NewVerdefSection()).(*VerdefSection)
	ctx.Verneed = push(NewVerneedSection()).(*VerneedSection)

	if !ctx.Arg.Static {
		ctx.Interp = push(NewInterpSection(ctx.Arg.DynamicLinker)).(*InterpSection)
	}
	if ctx.Arg.BuildId {
		ctx.BuildId = push(NewBuildIdSection()).(*BuildIdSection)
	}
	if ctx.Arg.EhFrameHdr {
		ctx.EhFrameHdr = push(NewEhFrameHdrSection()).(*EhFrameHdrSection)
	}
	ctx.EhFrame = push(NewEhFrameSection()).(*EhFrameSection)

	ctx.Symtab = push(NewSymtabSection()).(*SymtabSection)
	ctx.Strtab = push(NewStrtabSection()).(*StrtabSection)
	ctx.Shstrtab = push(NewShstrtabSection()).(*ShstrtabSection)
}

// BinSections scatters every live input section into its output
// section's member list. The outer loop is split into worker-sized
// slices so a large link's per-file scan runs concurrently; each
// worker's slice is merged back in file order afterward so a given
// output section's members stay in a stable, deterministic order.
func BinSections(ctx *Context) {
	slices := parallel.Chunks(len(ctx.Objs), parallel.Workers)
	groups := make([][][]*InputSection, len(slices))

	parallel.For(len(slices), func(i int) {
		lo, hi := slices[i][0], slices[i][1]
		group := make([][]*InputSection, len(ctx.OutputSections))
		for _, file := range ctx.Objs[lo:hi] {
			for _, isec := range file.Sections {
				if isec == nil || !isec.IsAlive {
					continue
				}
				idx := isec.OutputSection.Idx
				group[idx] = append(group[idx], isec)
			}
		}
		groups[i] = group
	})

	merged := make([][]*InputSection, len(ctx.OutputSections))
	for _, group := range groups {
		for idx, members := range group {
			merged[idx] = append(merged[idx], members...)
		}
	}
	for i, osec := range ctx.OutputSections {
		osec.Members = merged[i]
	}
}

// CollectOutputSections gathers every non-empty output/merged section
// and sorts them by name, type, then flags: name alone (the teacher's
// only key) is ambiguous once two same-named sections can differ in
// type or SHF_TLS/SHF_WRITE, which the DSO/TLS expansion makes possible.
func CollectOutputSections(ctx *Context) []Chunker {
	osecs := make([]Chunker, 0)
	for _, osec := range ctx.OutputSections {
		if len(osec.Members) != 0 {
			osecs = append(osecs, osec)
		}
	}
	for _, osec := range ctx.MergedSections {
		if osec.Shdr.Size > 0 {
			osecs = append(osecs, osec)
		}
	}

	sort.SliceStable(osecs, func(i, j int) bool {
		a, b := osecs[i], osecs[j]
		if a.GetName() != b.GetName() {
			return a.GetName() < b.GetName()
		}
		if a.GetShdr().Type != b.GetShdr().Type {
			return a.GetShdr().Type < b.GetShdr().Type
		}
		return a.GetShdr().Flags < b.GetShdr().Flags
	})
	return osecs
}

// AddSyntheticSymbols installs every "__foo_start"/"__foo_end"-shaped
// symbol this link defines itself. Values are placeholders; FixSyntheticSymbols
// binds them to real chunk addresses once ctx.Chunks has its final layout.
func AddSyntheticSymbols(ctx *Context) {
	obj := ctx.InternalObj

	add := func(name string) *Symbol {
		esym := Sym{
			Info:  uint8(elf.STT_NOTYPE)<<4 | uint8(elf.STB_GLOBAL)&0xf,
			Shndx: uint16(elf.SHN_ABS),
			Other: uint8(elf.STV_HIDDEN) << 6,
		}
		ctx.InternalEsyms = append(ctx.InternalEsyms, esym)
		sym := GetSymbolByName(ctx, name)
		sym.Value = 0xdeadbeef
		obj.Symbols = append(obj.Symbols, sym)
		return sym
	}

	ctx.__InitArrayStart = add("__init_array_start")
	ctx.__InitArrayEnd = add("__init_array_end")
	ctx.__FiniArrayStart = add("__fini_array_start")
	ctx.__FiniArrayEnd = add("__fini_array_end")
	ctx.__PreinitArrayStart = add("__preinit_array_start")
	ctx.__PreinitArrayEnd = add("__preinit_array_end")
	ctx.__BssStart = add("__bss_start")
	ctx.__Ehdr_start = add("__ehdr_start")
	add("__executable_start")
	ctx.__Etext = add("_etext")
	add("etext")
	ctx.__Edata = add("_edata")
	add("edata")
	ctx.__End = add("_end")
	add("end")
	add("_DYNAMIC")
	add("_GLOBAL_OFFSET_TABLE_")
	add("__GNU_EH_FRAME_HDR")
	add("__rela_iplt_start")
	add("__rela_iplt_end")

	obj.ElfSyms = ctx.InternalEsyms

	obj.ResolveSymbols(ctx)
}

func ClaimUnresolvedSymbols(ctx *Context) {
	parallel.ForEach(ctx.Objs, func(file *ObjectFile) {
		file.ClaimUnresolvedSymbols(ctx)
	})
}

// ScanRels is the relocation-scanning driver: inputsection.go's
// ScanRelocations sets each affected symbol's NEEDS_* flags under its
// own mutex, then this pass walks every flagged symbol exactly once and
// materializes the synthetic-section slot each flag asks for, growing
// .dynsym for anything that needs a dynamic-linker-visible entry.
func ScanRels(ctx *Context) {
	parallel.ForEach(ctx.Objs, func(file *ObjectFile) {
		file.ScanRelocations(ctx)
	})

	var syms []*Symbol
	for _, file := range ctx.Objs {
		for _, sym := range file.Symbols {
			if sym.File == file && (sym.Flags != 0 || sym.IsExported || sym.IsImported || sym.IsUndefWeak) {
				syms = append(syms, sym)
			}
		}
	}
	for _, sym := range ctx.SymbolMap {
		if sym.DsoFile != nil && (sym.Flags != 0 || sym.IsImported) {
			syms = append(syms, sym)
		}
	}

	ctx.SymbolsAux = make([]SymbolAux, 0, len(syms))
	addAux := func(sym *Symbol) {
		if sym.AuxIdx == -1 {
			sym.AuxIdx = int32(len(ctx.SymbolsAux))
			ctx.SymbolsAux = append(ctx.SymbolsAux, NewSymbolAux())
		}
	}

	for _, sym := range syms {
		addAux(sym)

		if sym.Flags&NEEDS_DYNSYM != 0 || sym.IsImported || sym.IsExported {
			ctx.Dynsym.Add(ctx, sym)
		}

		if sym.Flags&NEEDS_GOT != 0 {
			ctx.Got.AddGotSymbol(ctx, sym)
		}
		if sym.Flags&NEEDS_GOTTP != 0 {
			ctx.Got.AddGotTpSymbol(ctx, sym)
		}
		if sym.Flags&NEEDS_TLSGD != 0 {
			ctx.Got.AddTlsgdSymbol(ctx, sym)
		}
		if sym.Flags&NEEDS_TLSLD != 0 {
			ctx.Got.AddTlsld(ctx)
		}
		if sym.Flags&NEEDS_TLSDESC != 0 {
			// Lowered to the general-dynamic GOT pair: a standalone
			// TLSDESC relocator stub is not implemented, see DESIGN.md.
			if sym.Flags&NEEDS_TLSGD == 0 {
				ctx.Got.AddTlsgdSymbol(ctx, sym)
			}
		}

		if sym.Flags&NEEDS_PLT != 0 {
			if sym.Flags&NEEDS_GOT != 0 {
				ctx.PltGot.Add(ctx, sym)
			} else {
				ctx.Plt.Add(ctx, sym)
				ctx.GotPlt.Add(sym)
				ctx.RelPlt.Add(sym)
			}
		}

		if sym.Flags&NEEDS_COPYREL != 0 && !sym.HasCopyRel {
			var size uint64 = 8
			if sym.DsoFile != nil {
				if esym := sym.DsoFile.FindElfSym(sym); esym != nil && esym.Size != 0 {
					size = esym.Size
				}
			}
			align := copyrelAlign(size)
			ctx.Dynbss.Add(ctx, sym, size, align)
			ctx.Dynsym.Add(ctx, sym)
			ctx.RelDyn.Add(Rela{
				Offset: sym.GetAddr(ctx),
				Type:   uint32(elf.R_X86_64_COPY),
				Sym:    uint32(sym.DynsymIdx),
			})
		}

		sym.Flags = 0
	}

	ctx.Got.PopulateDynamicGotRelocations(ctx)
}

func ComputeSectionSizes(ctx *Context) {
	slices := parallel.Chunks(len(ctx.OutputSections), parallel.Workers)
	parallel.For(len(slices), func(i int) {
		lo, hi := slices[i][0], slices[i][1]
		for _, osec := range ctx.OutputSections[lo:hi] {
			offset := uint64(0)
			p2align := int64(0)

			for _, isec := range osec.Members {
				offset = utils.AlignTo(offset, 1<<isec.P2Align)
				isec.Offset = uint32(offset)
				offset += uint64(isec.ShSize)
				p2align = int64(math.Max(float64(p2align), float64(isec.P2Align)))
			}

			osec.Shdr.Size = offset
			osec.Shdr.AddrAlign = 1 << p2align
		}
	})
}

func SortOutputSections(ctx *Context) {
	getRank1 := func(chunk Chunker) int32 {
		typ := chunk.GetShdr().Type
		flags := chunk.GetShdr().Flags

		if flags&uint64(elf.SHF_ALLOC) == 0 {
			return math.MaxInt32 - 1
		}
		if chunk == ctx.Shdr {
			return math.MaxInt32
		}

		if chunk == ctx.Ehdr {
			return 0
		}
		if chunk == ctx.Phdr {
			return 1
		}
		if chunk == ctx.Interp {
			return 2
		}
		if typ == uint32(elf.SHT_NOTE) {
			return 3
		}

		b2i := func(b bool) int {
			if b {
				return 1
			}
			return 0
		}

		writeable := b2i(flags&uint64(elf.SHF_WRITE) != 0)
		notExec := b2i(flags&uint64(elf.SHF_EXECINSTR) == 0)
		notTls := b2i(flags&uint64(elf.SHF_TLS) == 0)
		notRelro := b2i(!isRelro(ctx, chunk))
		isBss := b2i(typ == uint32(elf.SHT_NOBITS))

		return int32((1 << 10) | writeable<<9 | notExec<<8 | notTls<<7 | notRelro<<6 | isBss<<5)
	}
	getRank2 := func(chunk Chunker) int32 {
		if chunk.GetShdr().Type == uint32(elf.SHT_NOTE) {
			return -int32(chunk.GetShdr().AddrAlign)
		}
		if chunk == ctx.GotPlt {
			return 2
		}
		if chunk == ctx.Got {
			return 1
		}
		return 0
	}

	sort.SliceStable(ctx.Chunks, func(i, j int) bool {
		x := getRank1(ctx.Chunks[i])
		y := getRank1(ctx.Chunks[j])
		if x != y {
			return x < y
		}
		return getRank2(ctx.Chunks[i]) < getRank2(ctx.Chunks[j])
	})
}

func doSetOsecOffsets(ctx *Context) uint64 {
	alignment := func(chunk Chunker) uint64 {
		return uint64(math.Max(float64(chunk.GetExtraAddrAlign()),
			float64(chunk.GetShdr().AddrAlign)))
	}

	addr := ctx.Arg.ImageBase
	for _, chunk := range ctx.Chunks {
		if chunk.GetShdr().Flags&uint64(elf.SHF_ALLOC) == 0 {
			continue
		}

		if isTbss(chunk) {
			chunk.GetShdr().Addr = addr
			continue
		}

		addr = utils.AlignTo(addr, alignment(chunk))
		chunk.GetShdr().Addr = addr

		addr += chunk.GetShdr().Size
	}

	for i := 0; i < len(ctx.Chunks); {
		if isTbss(ctx.Chunks[i]) {
			addr := ctx.Chunks[i].GetShdr().Addr
			for ; i < len(ctx.Chunks) && isTbss(ctx.Chunks[i]); i++ {
				addr = utils.AlignTo(addr, alignment(ctx.Chunks[i]))
				ctx.Chunks[i].GetShdr().Addr = addr
				addr += ctx.Chunks[i].GetShdr().Size
			}
		} else {
			i++
		}
	}

	fileoff := uint64(0)
	i := 0
	for i < len(ctx.Chunks) && ctx.Chunks[i].GetShdr().Flags&uint64(elf.SHF_ALLOC) != 0 {
		first := ctx.Chunks[i]
		utils.Assert(first.GetShdr().Type != uint32(elf.SHT_NOBITS))

		fileoff = utils.AlignTo(fileoff, alignment(first))

		for {
			ctx.Chunks[i].GetShdr().Offset = fileoff + ctx.Chunks[i].GetShdr().Addr - first.GetShdr().Addr
			i++

			if i >= len(ctx.Chunks) ||
				ctx.Chunks[i].GetShdr().Flags&uint64(elf.SHF_ALLOC) == 0 ||
				ctx.Chunks[i].GetShdr().Type == uint32(elf.SHT_NOBITS) {
				break
			}

			if ctx.Chunks[i].GetShdr().Addr < first.GetShdr().Addr {
				break
			}

			gapSize := ctx.Chunks[i].GetShdr().Addr - ctx.Chunks[i-1].GetShdr().Addr - ctx.Chunks[i-1].GetShdr().Size

			if gapSize >= PageSize {
				break
			}
		}

		fileoff = ctx.Chunks[i-1].GetShdr().Offset + ctx.Chunks[i-1].GetShdr().Size

		for i < len(ctx.Chunks) &&
			ctx.Chunks[i].GetShdr().Flags&uint64(elf.SHF_ALLOC) != 0 &&
			ctx.Chunks[i].GetShdr().Type == uint32(elf.SHT_NOBITS) {
			i++
		}
	}

	for ; i < len(ctx.Chunks); i++ {
		fileoff = utils.AlignTo(fileoff, ctx.Chunks[i].GetShdr().AddrAlign)
		ctx.Chunks[i].GetShdr().Offset = fileoff
		fileoff += ctx.Chunks[i].GetShdr().Size
	}
	return fileoff
}

// SetOsecOffsets is a fixed-point loop: assigning offsets can change
// ctx.Phdr's own size (adding a segment shifts every later chunk),
// which in turn can change offsets again, so it repeats until a pass
// leaves the program header table's size unchanged.
func SetOsecOffsets(ctx *Context) uint64 {
	for {
		fileoff := doSetOsecOffsets(ctx)

		if ctx.Phdr == nil {
			return fileoff
		}

		size := ctx.Phdr.Shdr.Size
		ctx.Phdr.UpdateShdr(ctx)

		if size == ctx.Phdr.Shdr.Size {
			return fileoff
		}
	}
}

// FixSyntheticSymbols binds every linker-defined symbol to its final
// chunk address now that ctx.Chunks has file offsets and virtual
// addresses assigned, plus a generic __start_<name>/__stop_<name> pair
// for every allocated chunk whose name is a valid C identifier (the
// convention __attribute__((section("name"))) code relies on to find
// its own custom section's bounds).
func FixSyntheticSymbols(ctx *Context) {
	start := func(sym *Symbol, chunk Chunker) {
		if sym != nil && chunk != nil {
			sym.SetOutputSection(chunk)
			sym.Value = chunk.GetShdr().Addr
		}
	}
	stop := func(sym *Symbol, chunk Chunker) {
		if sym != nil && chunk != nil {
			sym.SetOutputSection(chunk)
			sym.Value = chunk.GetShdr().Addr + chunk.GetShdr().Size
		}
	}

	var outputSections []Chunker
	for _, chunk := range ctx.Chunks {
		if chunk.Kind() != ChunkKindHeader {
			outputSections = append(outputSections, chunk)
		}
	}

	for _, chunk := range outputSections {
		switch chunk.GetShdr().Type {
		case uint32(elf.SHT_INIT_ARRAY):
			start(ctx.__InitArrayStart, chunk)
			stop(ctx.__InitArrayEnd, chunk)
		case uint32(elf.SHT_PREINIT_ARRAY):
			start(ctx.__PreinitArrayStart, chunk)
			stop(ctx.__PreinitArrayEnd, chunk)
		case uint32(elf.SHT_FINI_ARRAY):
			start(ctx.__FiniArrayStart, chunk)
			stop(ctx.__FiniArrayEnd, chunk)
		}
	}

	if len(outputSections) > 0 {
		start(ctx.__Ehdr_start, ctx.Ehdr)
		bindByName(ctx, "__executable_start", ctx.Ehdr)
	}

	var lastAlloc Chunker
	var bssStart Chunker
	for _, chunk := range outputSections {
		if chunk.GetShdr().Flags&uint64(elf.SHF_ALLOC) == 0 {
			continue
		}
		lastAlloc = chunk
		if bssStart == nil && chunk.GetShdr().Type == uint32(elf.SHT_NOBITS) &&
			chunk.GetShdr().Flags&uint64(elf.SHF_TLS) == 0 {
			bssStart = chunk
		}
		if chunk.GetShdr().Type != uint32(elf.SHT_NOBITS) {
			stop(ctx.__Etext, chunk)
			bindByName(ctx, "etext", chunk)
		}
	}
	if lastAlloc != nil {
		stop(ctx.__End, lastAlloc)
		bindByName(ctx, "end", lastAlloc)
		stop(ctx.__Edata, lastAlloc)
		bindByName(ctx, "edata", lastAlloc)
	}
	if bssStart != nil {
		start(ctx.__BssStart, bssStart)
	}

	if ctx.Dynamic != nil {
		bindByName(ctx, "_DYNAMIC", ctx.Dynamic)
	}
	if ctx.Got != nil {
		bindByName(ctx, "_GLOBAL_OFFSET_TABLE_", ctx.Got)
	}
	if ctx.EhFrameHdr != nil {
		bindByName(ctx, "__GNU_EH_FRAME_HDR", ctx.EhFrameHdr)
	}
	if ctx.RelPlt != nil {
		start(bindByName(ctx, "__rela_iplt_start", ctx.RelPlt), ctx.RelPlt)
		stop(bindByName(ctx, "__rela_iplt_end", ctx.RelPlt), ctx.RelPlt)
	}

	for _, chunk := range outputSections {
		name := chunk.GetName()
		if !isCIdentifier(name) {
			continue
		}
		startSym, ok := ctx.SymbolMap["__start_"+name]
		if ok && startSym.File == nil {
			startSym.File = ctx.InternalObj
			start(startSym, chunk)
		}
		stopSym, ok := ctx.SymbolMap["__stop_"+name]
		if ok && stopSym.File == nil {
			stopSym.File = ctx.InternalObj
			stop(stopSym, chunk)
		}
	}
}

// bindByName looks up an already-interned linker-defined symbol by name
// (AddSyntheticSymbols creates the placeholder) and binds it to chunk,
// returning nil if nothing referenced that name.
func bindByName(ctx *Context, name string, chunk Chunker) *Symbol {
	sym, ok := ctx.SymbolMap[name]
	if !ok || sym.File != ctx.InternalObj {
		return nil
	}
	sym.SetOutputSection(chunk)
	sym.Value = chunk.GetShdr().Addr
	return sym
}

func isCIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if i > 0 && !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

func isRelro(ctx *Context, chunk Chunker) bool {
	flags := chunk.GetShdr().Flags
	typ := chunk.GetShdr().Type

	if flags&uint64(elf.SHF_WRITE) != 0 {
		return (flags&uint64(elf.SHF_TLS) != 0) || typ == uint32(elf.SHT_INIT_ARRAY) ||
			typ == uint32(elf.SHT_FINI_ARRAY) || typ == uint32(elf.SHT_PREINIT_ARRAY) ||
			chunk == ctx.Got || chunk == ctx.Dynamic ||
			strings.HasSuffix(chunk.GetName(), "rel.ro")
	}
	return false
}

// copyrelAlign picks a conservative alignment for a .dynbss copy given
// only the DSO symbol's size, since the DSO's own section alignment
// isn't available from its dynamic symbol table entry alone.
func copyrelAlign(size uint64) uint64 {
	switch {
	case size >= 16:
		return 16
	case size >= 8:
		return 8
	case size >= 4:
		return 4
	case size >= 2:
		return 2
	default:
		return 1
	}
}

func isTbss(chunk Chunker) bool {
	return chunk.GetShdr().Type == uint32(elf.SHT_NOBITS) && chunk.GetShdr().Flags&uint64(elf.SHF_TLS) != 0
}
