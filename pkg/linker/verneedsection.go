package linker

import (
	"debug/elf"
	"sort"

	"github.com/goldlink/goldlink/pkg/utils"
)

// VerneedSection is .gnu.version_r: one Verneed record per needed DSO
// that exports at least one versioned symbol this output actually binds
// against, each followed by a Vernaux chain naming the specific versions
// referenced (§6). The DSO's own Verdef indices are not consulted; the
// Vernaux "Other" field here is a fresh index this output assigns and
// Versym reuses.
type VerneedSection struct {
	Chunk
	files []*verneedFile
}

type verneedFile struct {
	dso      *SharedFile
	versions []verneedVersion
}

type verneedVersion struct {
	name string
	ndx  uint16
}

func NewVerneedSection() *VerneedSection {
	v := &VerneedSection{Chunk: NewChunk()}
	v.Name = ".gnu.version_r"
	v.Shdr.Type = 0x6ffffffe // SHT_GNU_verneed
	v.Shdr.Flags = uint64(elf.SHF_ALLOC)
	v.Shdr.AddrAlign = 8
	return v
}

func (v *VerneedSection) NumFiles() int {
	return len(v.files)
}

// Register records that sym (imported from dso) carries a non-default
// version and returns the Versym index Versym should emit for it.
func (v *VerneedSection) Register(ctx *Context, dso *SharedFile, sym *Symbol) uint16 {
	if sym.VersionName == "" {
		return VER_NDX_GLOBAL
	}
	var f *verneedFile
	for _, cand := range v.files {
		if cand.dso == dso {
			f = cand
			break
		}
	}
	if f == nil {
		f = &verneedFile{dso: dso}
		v.files = append(v.files, f)
	}
	for _, ver := range f.versions {
		if ver.name == sym.VersionName {
			return ver.ndx
		}
	}
	ndx := uint16(VER_NDX_LAST_RESERVED+1) + uint16(v.totalVersions())
	f.versions = append(f.versions, verneedVersion{name: sym.VersionName, ndx: ndx})
	return ndx
}

func (v *VerneedSection) totalVersions() int {
	n := 0
	for _, f := range v.files {
		n += len(f.versions)
	}
	return n
}

func (v *VerneedSection) UpdateShdr(ctx *Context) {
	sort.Slice(v.files, func(i, j int) bool { return v.files[i].dso.Soname < v.files[j].dso.Soname })
	if len(v.files) == 0 {
		v.Shdr.Size = 0
		return
	}
	size := uint64(0)
	for _, f := range v.files {
		size += 16 // Verneed
		size += uint64(len(f.versions)) * 16
	}
	v.Shdr.Size = size
	v.Shdr.Link = uint32(ctx.Dynstr.Shndx)
	v.Shdr.Info = uint32(len(v.files))
}

func (v *VerneedSection) CopyBuf(ctx *Context) {
	if len(v.files) == 0 {
		return
	}
	buf := ctx.Buf[v.Shdr.Offset:]
	off := 0
	for fi, f := range v.files {
		vn := Verneed{
			Version: 1,
			Cnt:     uint16(len(f.versions)),
			File:    ctx.Dynstr.Add(f.dso.Soname),
			Aux:     16,
			Next:    0,
		}
		if fi < len(v.files)-1 {
			vn.Next = uint32(16 + 16*len(f.versions))
		}
		utils.Write[Verneed](buf[off:], vn)
		auxOff := off + 16
		for vi, ver := range f.versions {
			vx := Vernaux{
				Hash:  elfHash(ver.name),
				Flags: 0,
				Other: ver.ndx,
				Name:  ctx.Dynstr.Add(ver.name),
				Next:  0,
			}
			if vi < len(f.versions)-1 {
				vx.Next = 16
			}
			utils.Write[Vernaux](buf[auxOff:], vx)
			auxOff += 16
		}
		off += 16 + 16*len(f.versions)
	}
}
