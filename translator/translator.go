// Package translator drives the VM-to-Hack translation of one or more
// source units into a single assembly stream.
package translator

import (
	"io"
	"log"

	"github.com/ebakazu/vmtranslator/codewriter"
	"github.com/ebakazu/vmtranslator/parser"
	"github.com/ebakazu/vmtranslator/vm"
)

// Source is one VM-language unit. Name scopes its static segment and
// appears in error positions.
type Source struct {
	Name   string
	Reader io.Reader
}

type Options struct {
	// Bootstrap emits the SP initialisation and a call to EntryPoint
	// before the first unit.
	Bootstrap  bool
	EntryPoint string
	// Log receives progress messages; nil discards them.
	Log *log.Logger
	// Trace, when set, sees every classified command before it is lowered.
	Trace func(vm.Command)
}

// Translate lowers srcs, in order, into out. It stops at the first error;
// whatever was already written to out must then be discarded.
func Translate(out io.Writer, srcs []Source, opts Options) error {
	logf := func(format string, a ...interface{}) {
		if opts.Log != nil {
			opts.Log.Printf(format, a...)
		}
	}

	cw := codewriter.NewCodeWriter(out)
	if opts.Bootstrap {
		entry := opts.EntryPoint
		if entry == "" {
			entry = codewriter.EntryPoint
		}
		logf("bootstrap: SP=%d, call %s", codewriter.StackBase, entry)
		if err := cw.WriteBootstrap(entry); err != nil {
			return err
		}
	}

	for _, src := range srcs {
		logf("translating %s", src.Name)
		p := parser.NewParser(src.Name, src.Reader)
		cw.SetFileName(src.Name)
		for p.Scan() {
			c := p.Command()
			if opts.Trace != nil {
				opts.Trace(c)
			}
			if c.Type == vm.CFunction {
				logf("compiling function %s (%d locals)", c.Name, c.N)
			}
			if err := cw.WriteCommand(c); err != nil {
				return err
			}
		}
		if err := p.Err(); err != nil {
			return err
		}
	}
	return cw.Close()
}
