package linker

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"github.com/goldlink/goldlink/pkg/utils"
	"unicode"
)

// FileType classifies a File by sniffing its magic bytes. Every input
// goldlink accepts — relocatable objects, shared objects pulled in via
// -l/-L, and regular (fat) archives of relocatable objects — funnels
// through GetFileType before ReadFile decides which of ctx.Objs/ctx.Dsos
// it joins. Thin archives, and archive members that are not relocatable
// objects, are recognized but rejected with a fatal error.
type FileType = int8

const (
	FileTypeUnknown FileType = iota
	FileTypeEmpty   FileType = iota
	FileTypeObject  FileType = iota
	FileTypeDso     FileType = iota
	FileTypeAr      FileType = iota
	FileTypeThinAr  FileType = iota
	FileTypeText    FileType = iota
)

// GetFileType inspects contents' leading bytes without fully parsing
// them: an ELF e_type of ET_DYN routes the file to CreateSharedFile
// rather than CreateObjectFile, which is what lets `-lc.so.6`-style
// shared library arguments and ordinary `.o` arguments share the same
// ReadFile dispatch.
func GetFileType(contents []byte) FileType {
	if len(contents) == 0 {
		return FileTypeEmpty
	}

	if CheckMagic(contents) {
		et := elf.Type(binary.LittleEndian.Uint16(contents[16:]))
		switch et {
		case elf.ET_REL:
			return FileTypeObject
		case elf.ET_DYN:
			return FileTypeDso
		}
		return FileTypeUnknown
	}

	if bytes.HasPrefix(contents, []byte("!<arch>\n")) {
		return FileTypeAr
	}
	if bytes.HasPrefix(contents, []byte("!<thin>\n")) {
		return FileTypeThinAr
	}

	isTextFile := func() bool {
		return len(contents) >= 4 &&
			unicode.IsPrint(rune(contents[0])) &&
			unicode.IsPrint(rune(contents[1])) &&
			unicode.IsPrint(rune(contents[2])) &&
			unicode.IsPrint(rune(contents[3]))
	}

	if isTextFile() {
		return FileTypeText
	}

	return FileTypeUnknown
}

func CheckFileCompatibility(ctx *Context, file *File) {
	mt := GetMachineTypeFromContents(file.Contents)
	if mt != ctx.Arg.Emulation {
		utils.Fatal("incompatible file type")
	}
}
