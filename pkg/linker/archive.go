package linker

import (
	"bytes"
	"encoding/binary"
	"github.com/goldlink/goldlink/pkg/utils"
	"unsafe"
)

// ReadFatArchiveMembers walks a traditional (non-thin) `ar` archive's
// member headers, resolving each member's name against the extended
// name string table (`//`) when the 16-byte inline name field
// overflowed. It skips both flavors of BSD/System V symbol table
// member (`__.SYMDEF[ SORTED]`) since ReadInputFiles builds its own
// symbol resolution state from each member's ELF symbol table rather
// than trusting the archive's own index.
func ReadFatArchiveMembers(file *File) []*File {
	begin := 0
	data := begin + 8
	var strTab []byte
	var files []*File

	for begin+len(file.Contents)-data >= 2 {
		if (begin-data)%2 == 1 {
			data++
		}

		hdr := &ArHdr{}
		err := binary.Read(bytes.NewBuffer(file.Contents[data:]), binary.LittleEndian, hdr)
		utils.MustNo(err)
		body := data + int(unsafe.Sizeof(ArHdr{}))
		data = body + hdr.GetSize()

		if hdr.IsStrtab() {
			strTab = file.Contents[body:data]
			continue
		}

		if hdr.IsSymtab() {
			continue
		}

		ptr := file.Contents[body:]
		name := hdr.ReadName(strTab, &ptr)

		if name == "__.SYMDEF" || name == "__.SYMDEF SORTED" {
			continue
		}

		files = append(files, &File{
			Name:     name,
			Contents: file.Contents[body:data],
			Parent:   file,
		})
	}

	return files
}

// ReadArchiveMembers dispatches on the archive's own magic (thin
// archives, which store member offsets into external files rather
// than inline content, aren't accepted here: they reach the default
// case below and stop the link with a fatal error).
func ReadArchiveMembers(file *File) []*File {
	switch GetFileType(file.Contents) {
	case FileTypeAr:
		return ReadFatArchiveMembers(file)
	default:
		utils.Fatal("unreachable")
	}
	return nil
}
