package codewriter

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ebakazu/vmtranslator/symboltable"
	"github.com/ebakazu/vmtranslator/vm"
)

// Hack memory map.
const (
	StackBase   = 256
	EntryPoint  = "Sys.init"
	pointerBase = 3
	tempBase    = 5
	tempSize    = 8
	staticBase  = 16
	maxConstant = 1<<15 - 1
)

var (
	ErrNoFunction  = errors.New("no enclosing function")
	ErrSegment     = errors.New("invalid segment access")
	ErrIndex       = errors.New("index out of range")
	ErrUnsupported = errors.New("unsupported command")
	ErrBootstrap   = errors.New("bootstrap must be written once, before any other code")
)

// Error reports the command a translation failed on.
type Error struct {
	Pos     vm.Pos
	Command string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Pos, e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var pointerSymbol = map[vm.Segment]string{
	vm.Local:    "LCL",
	vm.Argument: "ARG",
	vm.This:     "THIS",
	vm.That:     "THAT",
}

type staticKey struct {
	unit  string
	index int
}

// CodeWriter lowers VM commands to Hack assembly. One CodeWriter serves a
// whole output file: its label counter, current function and symbol table
// span every source unit written through it.
type CodeWriter struct {
	writer              io.Writer
	name                string
	currentFunctionName string
	labelCnt            int
	symbols             *symboltable.SymbolTable
	statics             map[staticKey]int
	pos                 vm.Pos
	emitted             bool
	err                 error
}

func NewCodeWriter(writer io.Writer) *CodeWriter {
	return &CodeWriter{
		writer:  writer,
		symbols: symboltable.NewSymbolTable(),
		statics: map[staticKey]int{},
	}
}

// SetFileName announces the source unit the following commands come from.
// Static segments are scoped to it.
func (cw *CodeWriter) SetFileName(name string) {
	cw.name = name
}

// WriteCommand emits the assembly for c. After the first error every
// further call returns that error.
func (cw *CodeWriter) WriteCommand(c vm.Command) error {
	if cw.err != nil {
		return cw.err
	}
	cw.pos = c.Pos

	var err error
	switch c.Type {
	case vm.CArithmetic:
		err = cw.writeArithmetic(c.Op)
	case vm.CPush:
		err = cw.writePush(c.Segment, c.Index)
	case vm.CPop:
		err = cw.writePop(c.Segment, c.Index)
	case vm.CLabel:
		err = cw.writeLabel(c.Name)
	case vm.CGoto:
		err = cw.writeGoto(c.Name)
	case vm.CIfGoto:
		err = cw.writeIfGoto(c.Name)
	case vm.CFunction:
		err = cw.writeFunction(c.Name, c.N)
	case vm.CReturn:
		err = cw.writeReturn()
	case vm.CCall:
		err = cw.writeCall(c.Name, c.N)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupported, c.Type)
	}
	if err != nil {
		cw.err = cw.wrap(c.String(), err)
	}
	return cw.err
}

// Close runs the deferred check for jumps and calls to symbols that were
// never defined. It does not close the underlying writer.
func (cw *CodeWriter) Close() error {
	if cw.err != nil {
		return cw.err
	}
	cw.err = cw.symbols.Check()
	return cw.err
}

func (cw *CodeWriter) wrap(command string, err error) error {
	var se *symboltable.Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Pos: cw.pos, Command: command, Err: err}
}

func (cw *CodeWriter) fPrintln(code ...string) {
	if cw.err != nil {
		return
	}
	cw.emitted = true
	if _, err := fmt.Fprintln(cw.writer, strings.Join(code, "\n")); err != nil {
		cw.err = err
	}
}

func (cw *CodeWriter) nextLabelID() string {
	id := strconv.Itoa(cw.labelCnt)
	cw.labelCnt++
	return id
}

// synthetic labels start with '$', which no function name or qualified
// user label can
func syntheticLabel(kind, id string) string {
	return "$" + kind + "." + id
}

func address(n int) string {
	return "@" + strconv.Itoa(n)
}

func pushD() []string {
	return []string{"@SP", "A=M", "M=D", "@SP", "M=M+1"}
}

func popD() []string {
	return []string{"@SP", "AM=M-1", "D=M"}
}

func checkLoadable(what string, n int) error {
	if n > maxConstant {
		return fmt.Errorf("%w: %s %d exceeds %d", ErrIndex, what, n, maxConstant)
	}
	return nil
}
