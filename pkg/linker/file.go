package linker

import (
	"os"

	"github.com/goldlink/goldlink/pkg/utils"
)

type File struct {
	Name     string
	Contents []byte

	Parent *File
}

func MustNewFile(filename string) *File {
	contents, err := os.ReadFile(filename)
	utils.MustNo(err)
	return &File{
		Name:     filename,
		Contents: contents,
	}
}

func OpenLibrary(path string) *File {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	file := &File{Name: path, Contents: contents}
	ty := GetMachineTypeFromContents(file.Contents)
	if ty == MachineTypeNone || ty == MachineTypeX86_64 {
		return file
	}

	utils.Fatal("incompatible file")
	return nil
}

// FindLibrary resolves a -lname argument against the -L search path,
// preferring a shared object over a static archive of the same name
// unless the caller passed -static, matching the ordinary ld search
// order for a name with no explicit extension.
func FindLibrary(ctx *Context, name string) *File {
	if !ctx.Arg.Static {
		for _, dir := range ctx.Arg.LibraryPaths {
			if f := OpenLibrary(dir + "/lib" + name + ".so"); f != nil {
				return f
			}
		}
	}

	for _, dir := range ctx.Arg.LibraryPaths {
		if f := OpenLibrary(dir + "/lib" + name + ".a"); f != nil {
			return f
		}
	}

	utils.Fatal("library not found")
	return nil
}
