package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/ebakazu/vmtranslator/hack"
	"github.com/ebakazu/vmtranslator/translator"
	"github.com/ebakazu/vmtranslator/vm"
)

var (
	output    = flag.String("o", "", "output file (default <file>.asm or <dir>/<dir>.asm)")
	bootstrap = flag.String("bootstrap", "auto", "emit bootstrap code: auto, on or off (auto: on for directories)")
	entry     = flag.String("entry", "Sys.init", "function the bootstrap code calls")
	assemble  = flag.Bool("hack", false, "also assemble the output into a .hack file")
	dump      = flag.Bool("dump", false, "dump classified commands to stderr")
	verbose   = flag.Bool("v", false, "log progress to stderr")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("vmtranslator: ")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: vmtranslator [flags] file.vm|dir\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("missing file or directory argument")
	}
	fPath := filepath.Clean(flag.Arg(0))

	fInfo, err := os.Stat(fPath)
	if err != nil {
		log.Fatal(err)
	}

	var locs []string
	outPath := *output
	if fInfo.IsDir() {
		entries, err := os.ReadDir(fPath)
		if err != nil {
			log.Fatal(err)
		}
		locs = pickVMFileLocations(entries, fPath)
		if len(locs) == 0 {
			log.Fatalf("no .vm files in %s", fPath)
		}
		if outPath == "" {
			outPath = filepath.Join(fPath, filepath.Base(fPath)+".asm")
		}
	} else {
		locs = []string{fPath}
		if outPath == "" {
			outPath = strings.TrimSuffix(fPath, ".vm") + ".asm"
		}
	}

	opts := translator.Options{EntryPoint: *entry}
	switch *bootstrap {
	case "auto":
		opts.Bootstrap = fInfo.IsDir()
	case "on":
		opts.Bootstrap = true
	case "off":
	default:
		log.Fatalf("invalid -bootstrap value %q", *bootstrap)
	}
	if *verbose {
		opts.Log = log.New(os.Stderr, "vmtranslator: ", 0)
	}
	var commands []vm.Command
	if *dump {
		opts.Trace = func(c vm.Command) {
			commands = append(commands, c)
		}
	}

	var srcs []translator.Source
	for _, loc := range locs {
		b, err := os.ReadFile(loc)
		if err != nil {
			log.Fatal(err)
		}
		name := strings.TrimSuffix(filepath.Base(loc), ".vm")
		srcs = append(srcs, translator.Source{Name: name, Reader: bytes.NewReader(b)})
	}

	var out bytes.Buffer
	err = translator.Translate(&out, srcs, opts)
	if *dump {
		spew.Fdump(os.Stderr, commands)
	}
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(outPath, out.Bytes(), 0644); err != nil {
		log.Fatal(err)
	}

	if *assemble {
		if err := writeHack(strings.TrimSuffix(outPath, ".asm")+".hack", out.Bytes()); err != nil {
			log.Fatal(err)
		}
	}
}

func writeHack(loc string, asm []byte) error {
	prog, err := hack.Assemble(bytes.NewReader(asm))
	if err != nil {
		return err
	}

	f, err := os.Create(loc)
	if err != nil {
		return err
	}
	if err := prog.WriteBinary(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func pickVMFileLocations(entries []os.DirEntry, fPath string) (locs []string) {
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".vm") && !e.IsDir() {
			locs = append(locs, filepath.Join(fPath, name))
		}
	}
	return locs
}
