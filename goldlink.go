// Command goldlink links x86-64 ELF relocatable objects, static
// archives, and shared objects into an executable or shared object,
// following the same non-positional argument scanning and pass-driven
// pipeline as the teacher's RISC-V linker.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goldlink/goldlink/pkg/linker"
	"github.com/goldlink/goldlink/pkg/log"
	"github.com/goldlink/goldlink/pkg/utils"
)

var version string

func main() {
	ctx := linker.NewContext()
	remaining := parseNonpositionalArgs(ctx)

	log.Configure(ctx.Arg.LogVerbose, ctx.Arg.LogFile, 20, 5)

	if ctx.Arg.Emulation == linker.MachineTypeNone {
		for _, filename := range remaining {
			if strings.HasPrefix(filename, "-") {
				continue
			}
			file := linker.MustNewFile(filename)
			ctx.Arg.Emulation = linker.GetMachineTypeFromContents(file.Contents)
			if ctx.Arg.Emulation != linker.MachineTypeNone {
				break
			}
		}
	}

	if ctx.Arg.Emulation != linker.MachineTypeX86_64 {
		utils.Fatal("unknown emulation type")
	}

	run(ctx, remaining)
}

func run(ctx *linker.Context, remaining []string) {
	done := ctx.Timer.Start("read_input_files")
	linker.ReadInputFiles(ctx, remaining)
	for _, name := range ctx.Arg.Undefined {
		ctx.GetOrCreateSymbol(name)
	}
	done()

	done = ctx.Timer.Start("apply_exclude_libs")
	linker.CreateInternalFile(ctx)
	linker.ApplyExcludeLibs(ctx)
	done()

	done = ctx.Timer.Start("set_file_priority")
	linker.SetFilePriority(ctx)
	done()

	done = ctx.Timer.Start("resolve_obj_symbols")
	linker.ResolveSymbols(ctx)
	done()

	done = ctx.Timer.Start("resolve_dso_symbols")
	linker.ResolveDsoSymbols(ctx)
	done()

	done = ctx.Timer.Start("eliminate_comdats")
	linker.EliminateComdats(ctx)
	done()

	done = ctx.Timer.Start("convert_common_symbols")
	linker.ConvertCommonSymbols(ctx)
	done()

	done = ctx.Timer.Start("register_section_pieces")
	linker.RegisterSectionPieces(ctx)
	done()

	done = ctx.Timer.Start("parse_symbol_version")
	linker.ApplyVersionScript(ctx)
	ctx.Diag.Checkpoint()
	done()

	done = ctx.Timer.Start("compute_import_export")
	linker.ComputeImportExport(ctx)
	done()

	done = ctx.Timer.Start("compute_merged_section_sizes")
	linker.ComputeMergedSectionSizes(ctx)
	done()

	done = ctx.Timer.Start("create_synthetic_sections")
	linker.CreateSyntheticSections(ctx)
	done()

	done = ctx.Timer.Start("bin_sections")
	linker.BinSections(ctx)
	ctx.Chunks = append(ctx.Chunks, linker.CollectOutputSections(ctx)...)
	done()

	done = ctx.Timer.Start("add_synthetic_symbols")
	linker.AddSyntheticSymbols(ctx)
	done()

	done = ctx.Timer.Start("claim_unresolved_symbols")
	linker.ClaimUnresolvedSymbols(ctx)
	done()

	done = ctx.Timer.Start("check_duplicate_symbols")
	linker.CheckDuplicateSymbols(ctx)
	ctx.Diag.Checkpoint()
	done()

	done = ctx.Timer.Start("scan_rels")
	linker.ScanRels(ctx)
	ctx.Diag.Checkpoint()
	done()

	done = ctx.Timer.Start("compute_section_sizes")
	linker.ComputeSectionSizes(ctx)
	done()

	done = ctx.Timer.Start("fill_verdef")
	linker.FillVerdef(ctx)
	done()

	done = ctx.Timer.Start("fill_verneed")
	linker.FillVerneed(ctx)
	done()

	done = ctx.Timer.Start("sort_output_sections")
	linker.SortOutputSections(ctx)
	done()

	done = ctx.Timer.Start("set_osec_offsets")
	for _, chunk := range ctx.Chunks {
		chunk.UpdateShdr(ctx)
	}

	ctx.Chunks = utils.RemoveIf[linker.Chunker](ctx.Chunks, func(chunk linker.Chunker) bool {
		return chunk.Kind() != linker.ChunkKindOutputSection && chunk.GetShdr().Size == 0
	})

	shndx := int64(1)
	for i := 0; i < len(ctx.Chunks); i++ {
		if ctx.Chunks[i].Kind() != linker.ChunkKindHeader {
			ctx.Chunks[i].SetShndx(shndx)
			shndx++
		}
	}

	for _, chunk := range ctx.Chunks {
		chunk.UpdateShdr(ctx)
	}

	fileSize := linker.SetOsecOffsets(ctx)
	done()

	done = ctx.Timer.Start("fix_synthetic_symbols")
	linker.FixSyntheticSymbols(ctx)
	done()

	done = ctx.Timer.Start("write_output")
	out, err := linker.CreateOutputBuffer(ctx.Arg.Output, fileSize, 0777)
	utils.MustNo(err)
	ctx.Buf = out.Bytes()

	for _, chunk := range ctx.Chunks {
		chunk.CopyBuf(ctx)
	}

	linker.ClearPadding(ctx)

	if ctx.BuildId != nil {
		ctx.BuildId.FinalizeBuildId(ctx)
	}

	utils.MustNo(out.Close())
	done()

	if ctx.Arg.DumpPlt {
		f, err := os.Create(ctx.Arg.Output + ".plt.txt")
		utils.MustNo(err)
		utils.MustNo(linker.WritePltDump(ctx, f))
		utils.MustNo(f.Close())
	}

	if ctx.Arg.TimeReport {
		utils.MustNo(linker.WriteTimeReport(ctx, ctx.Arg.Output+".prof"))
	}
}

func parseNonpositionalArgs(ctx *linker.Context) []string {
	dashes := func(name string) []string {
		if len(name) == 1 {
			return []string{"-" + name}
		}
		return []string{"-" + name, "--" + name}
	}

	args := os.Args[1:]
	remaining := make([]string, 0)
	var arg string

	readArg := func(name string) bool {
		if len(args) == 0 {
			return false
		}
		for _, opt := range dashes(name) {
			if args[0] == opt {
				if len(args) == 1 {
					utils.Fatal(fmt.Sprintf("option -%s: argument missing", name))
					return false
				}
				arg = args[1]
				args = args[2:]
				return true
			}

			prefix := opt
			if len(name) > 1 {
				prefix += "="
			}

			if strings.HasPrefix(args[0], prefix) {
				arg = args[0][len(prefix):]
				args = args[1:]
				return true
			}
		}
		return false
	}

	readFlag := func(name string) bool {
		if len(args) == 0 {
			return false
		}
		for _, opt := range dashes(name) {
			if args[0] == opt {
				args = args[1:]
				return true
			}
		}
		return false
	}

	for len(args) > 0 {
		switch {
		case readFlag("help"):
			fmt.Printf("Usage: %s [options] file...\n", os.Args[0])
			os.Exit(0)
		case readArg("o") || readArg("output"):
			ctx.Arg.Output = arg
		case readFlag("v") || readFlag("version"):
			fmt.Printf("goldlink %s\n", version)
			os.Exit(0)
		case readArg("m"):
			if arg == "elf_x86_64" {
				ctx.Arg.Emulation = linker.MachineTypeX86_64
			} else {
				utils.Fatal(fmt.Sprintf("unknown -m argument: %s", arg))
			}
		case readArg("sysroot"):
			// Ignored.
		case readArg("L") || readArg("library-path"):
			ctx.Arg.LibraryPaths = append(ctx.Arg.LibraryPaths, arg)
		case readArg("l"):
			remaining = append(remaining, "-l"+arg)
		case readFlag("static"):
			ctx.Arg.Static = true
		case readFlag("shared") || readFlag("Bshareable"):
			ctx.Arg.Shared = true
		case readFlag("export-dynamic") || readFlag("E"):
			ctx.Arg.ExportDynamic = true
		case readArg("exclude-libs"):
			if arg == "ALL" {
				ctx.Arg.ExcludeLibsAll = true
			} else {
				for _, name := range strings.Split(arg, ",") {
					ctx.Arg.ExcludeLibs.Add(name)
				}
			}
		case readArg("u") || readArg("undefined"):
			ctx.Arg.Undefined = append(ctx.Arg.Undefined, arg)
		case readArg("dynamic-linker") || readArg("I"):
			ctx.Arg.DynamicLinker = arg
		case readArg("soname") || readArg("h"):
			ctx.Arg.Soname = arg
		case readArg("build-id"):
			ctx.Arg.BuildId = arg != "none"
		case readFlag("eh-frame-hdr"):
			ctx.Arg.EhFrameHdr = true
		case readArg("hash-style"):
			switch arg {
			case "sysv":
				ctx.Arg.HashStyleSysv, ctx.Arg.HashStyleGnu = true, false
			case "gnu":
				ctx.Arg.HashStyleSysv, ctx.Arg.HashStyleGnu = false, true
			case "both":
				ctx.Arg.HashStyleSysv, ctx.Arg.HashStyleGnu = true, true
			default:
				utils.Fatal(fmt.Sprintf("unknown -hash-style argument: %s", arg))
			}
		case readArg("version-script"):
			ctx.Arg.VersionScripts = append(ctx.Arg.VersionScripts, arg)
		case readFlag("Bsymbolic"):
			ctx.Arg.Bsymbolic = true
		case readFlag("Bsymbolic-functions"):
			ctx.Arg.BsymbolicFunctions = true
		case readArg("image-base"):
			base, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 64)
			if err != nil {
				utils.Fatal(fmt.Sprintf("invalid -image-base argument: %s", arg))
			}
			ctx.Arg.ImageBase = base
		case readFlag("gc-sections"):
			ctx.Arg.GcSections = true
		case readFlag("time-report"):
			ctx.Arg.TimeReport = true
		case readFlag("dump-plt"):
			ctx.Arg.DumpPlt = true
		case readArg("log-file"):
			ctx.Arg.LogFile = arg
		case readFlag("log-verbose"):
			ctx.Arg.LogVerbose = true
		case readArg("plugin") ||
			readArg("plugin-opt") ||
			readFlag("as-needed") ||
			readFlag("start-group") ||
			readFlag("end-group") ||
			readFlag("s") ||
			readFlag("no-relax"):
			// Ignored.
		default:
			if len(args[0]) > 0 && args[0][0] == '-' {
				utils.Fatal(fmt.Sprintf("unknown command line option: %s", args[0]))
			}
			remaining = append(remaining, args[0])
			args = args[1:]
		}
	}

	for i, path := range ctx.Arg.LibraryPaths {
		ctx.Arg.LibraryPaths[i] = filepath.Clean(path)
	}

	return remaining
}
