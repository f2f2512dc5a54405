package vm

import (
	"fmt"
	"io"
)

// Writer emits VM-language text, one command per line.
type Writer struct {
	out io.Writer
	err error
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) printf(format string, a ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, a...)
}

func (w *Writer) WritePush(segment Segment, index int) {
	w.printf("push %s %d\n", segment, index)
}

func (w *Writer) WritePop(segment Segment, index int) {
	w.printf("pop %s %d\n", segment, index)
}

func (w *Writer) WriteArithmetic(op Op) {
	w.printf("%s\n", op)
}

func (w *Writer) WriteFunction(name string, nLocals int) {
	w.printf("function %s %d\n", name, nLocals)
}

func (w *Writer) WriteReturn() {
	w.printf("return\n")
}

func (w *Writer) WriteCall(name string, nArgs int) {
	w.printf("call %s %d\n", name, nArgs)
}

func (w *Writer) WriteIf(label string) {
	w.printf("if-goto %s\n", label)
}

func (w *Writer) WriteGoto(label string) {
	w.printf("goto %s\n", label)
}

func (w *Writer) WriteLabel(label string) {
	w.printf("label %s\n", label)
}

// WriteCommand writes any classified command.
func (w *Writer) WriteCommand(c Command) {
	w.printf("%s\n", c)
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}
