package linker

import (
	"debug/elf"
	"path/filepath"
	"unsafe"

	"github.com/goldlink/goldlink/pkg/utils"
)

// SharedFile represents one -l resolved to a .so, or a .so given
// directly on the command line. Unlike an ObjectFile it never
// contributes sections to the output; it only contributes symbol
// definitions that a reference in an object file may resolve against
// and that must in turn be re-exported through .dynsym/.dynstr with a
// DT_NEEDED entry pointing back at it.
type SharedFile struct {
	InputFile

	Soname string

	// VerDefNames is a map from a Verdef index to its version string.
	// CreateSharedFile does not read the DSO's .gnu.version_d table, so
	// it stays nil and no pass reads it.
	VerDefNames map[uint16]string

	// Aliases lists the base names of symbols this DSO exports only
	// under a non-default ("name@ver") version. Symbols are not grouped
	// by address, and no pass reads this list.
	Aliases []string

	// Undefs holds this DSO's own undefined dynsym references, i.e. the
	// symbols the shared object expects some other component to supply
	// at runtime. compute_import_export walks these to find references
	// this link's own executable satisfies, so that definition can be
	// exported back into .dynsym for the DSO to bind against.
	Undefs []*Symbol
}

func NewSharedFile(file *File) *SharedFile {
	return &SharedFile{InputFile: *NewInputFile(file)}
}

// CreateSharedFile parses a DSO's dynamic symbol table and its DT_SONAME
// (falling back to the file's base name, matching the runtime linker's
// own rule). Version suffixes are stripped from symbol names; the DSO's
// symbol-versioning sections are not read.
func CreateSharedFile(ctx *Context, file *File) *SharedFile {
	CheckFileCompatibility(ctx, file)

	f := NewSharedFile(file)
	f.Priority = uint32(ctx.FilePriority)
	ctx.FilePriority++
	f.Soname = filepath.Base(file.Name)

	dynsymSec := f.FindSection(uint32(elf.SHT_DYNSYM))
	if dynsymSec == nil {
		return f
	}

	f.FillUpElfSyms(dynsymSec)
	f.SymbolStrtab = f.GetBytesFromIdx(int64(dynsymSec.Link))

	if dynSec := f.FindSection(uint32(elf.SHT_DYNAMIC)); dynSec != nil {
		f.readDynamicSoname(dynSec)
	}

	f.Symbols = make([]*Symbol, len(f.ElfSyms))
	for i := 0; i < len(f.ElfSyms); i++ {
		esym := &f.ElfSyms[i]
		if i == 0 {
			continue
		}
		if esym.IsUndef() {
			rawName := getName(f.SymbolStrtab, esym.Name)
			name, _, _ := ParseSymbolVersion(rawName)
			f.Undefs = append(f.Undefs, GetSymbolByName(ctx, name))
			continue
		}
		rawName := getName(f.SymbolStrtab, esym.Name)
		name, ver, isDefault := ParseSymbolVersion(rawName)
		if ver != "" && !isDefault {
			// A non-default versioned alias; record it but resolve
			// against the plain name too so unversioned references
			// still find a definition.
			f.Aliases = append(f.Aliases, name)
		}
		sym := GetSymbolByName(ctx, name)
		f.Symbols[i] = sym
	}

	f.IsAlive.Store(false)
	return f
}

// FindElfSym returns the raw ELF symbol backing target, for callers
// (copy-relocation sizing) that need the DSO's own size/value fields
// rather than the resolved, file-independent Symbol.
func (f *SharedFile) FindElfSym(target *Symbol) *Sym {
	for i, sym := range f.Symbols {
		if sym == target {
			return &f.ElfSyms[i]
		}
	}
	return nil
}

func (f *SharedFile) readDynamicSoname(shdr *Shdr) {
	bs := f.GetBytesFromShdr(shdr)
	n := len(bs) / int(unsafe.Sizeof(Dyn{}))
	strtabShdr := f.FindSection(uint32(elf.SHT_STRTAB))

	for i := 0; i < n; i++ {
		d := utils.Read[Dyn](bs)
		bs = bs[unsafe.Sizeof(Dyn{}):]
		if d.Tag == DT_NULL {
			break
		}
		if d.Tag == DT_SONAME && strtabShdr != nil {
			strtab := f.GetBytesFromShdr(strtabShdr)
			f.Soname = getName(strtab, uint32(d.Val))
		}
	}
}

// ResolveSymbols installs this DSO as the resolution for every symbol it
// exports that nothing stronger (an object file or archive member) has
// already claimed, following the same rank-comparison rule ObjectFile
// uses so an application's own definition always wins over a shared
// library's.
func (f *SharedFile) ResolveSymbols(ctx *Context) {
	for i, sym := range f.Symbols {
		if sym == nil {
			continue
		}
		esym := &f.ElfSyms[i]

		if GetDsoRank(f, esym.IsWeak()) < sym.GetRank() {
			sym.Mu.Lock()
			sym.File = nil
			sym.DsoFile = f
			sym.Value = esym.Val
			sym.IsWeak = esym.IsWeak()
			sym.IsImported = true
			sym.Mu.Unlock()
		}
	}
}
