package codewriter

import (
	"fmt"

	"github.com/ebakazu/vmtranslator/parser"
	"github.com/ebakazu/vmtranslator/symboltable"
	"github.com/ebakazu/vmtranslator/vm"
)

// QualifyLabel scopes a user label to the function it appears in.
func QualifyLabel(function, label string) string {
	return function + "$" + label
}

// returnLabel names the anchor a call returns to. The two '$' keep it apart
// from user labels, which carry exactly one.
func returnLabel(caller, callee, id string) string {
	return caller + "$ret." + callee + "$" + id
}

// WriteBootstrap sets SP to the stack base and calls entry. It must come
// before any other code.
func (cw *CodeWriter) WriteBootstrap(entry string) error {
	if cw.err != nil {
		return cw.err
	}
	cw.pos = vm.Pos{Unit: "bootstrap"}
	command := "call " + entry + " 0"
	if cw.emitted {
		cw.err = cw.wrap(command, ErrBootstrap)
		return cw.err
	}
	if !parser.ValidIdentifier(entry) {
		cw.err = cw.wrap(command, fmt.Errorf("%w: invalid entry point %q", ErrUnsupported, entry))
		return cw.err
	}

	cw.fPrintln(address(StackBase), "D=A", "@SP", "M=D")
	if err := cw.writeCall(entry, 0); err != nil {
		cw.err = cw.wrap(command, err)
	}
	return cw.err
}

func (cw *CodeWriter) enclosingFunction() (string, error) {
	if cw.currentFunctionName == "" {
		return "", ErrNoFunction
	}
	return cw.currentFunctionName, nil
}

func (cw *CodeWriter) writeLabel(dest string) error {
	fn, err := cw.enclosingFunction()
	if err != nil {
		return err
	}
	label := QualifyLabel(fn, dest)
	if err := cw.symbols.Define(label, symboltable.Label, cw.pos); err != nil {
		return err
	}

	cw.fPrintln("(" + label + ")")
	return nil
}

func (cw *CodeWriter) writeGoto(dest string) error {
	fn, err := cw.enclosingFunction()
	if err != nil {
		return err
	}
	label := QualifyLabel(fn, dest)
	cw.symbols.Reference(label, symboltable.Label, cw.pos)

	cw.fPrintln("@"+label, "0;JMP")
	return nil
}

func (cw *CodeWriter) writeIfGoto(dest string) error {
	fn, err := cw.enclosingFunction()
	if err != nil {
		return err
	}
	label := QualifyLabel(fn, dest)
	cw.symbols.Reference(label, symboltable.Label, cw.pos)

	cw.fPrintln(append(popD(), "@"+label, "D;JNE")...)
	return nil
}

func (cw *CodeWriter) writeFunction(f string, k int) error {
	if err := cw.symbols.Define(f, symboltable.Function, cw.pos); err != nil {
		return err
	}
	cw.currentFunctionName = f

	code := []string{"(" + f + ")"}
	for i := 0; i < k; i++ {
		code = append(code, "@0", "D=A")
		code = append(code, pushD()...)
	}
	cw.fPrintln(code...)
	return nil
}

func (cw *CodeWriter) writeCall(f string, n int) error {
	if err := checkLoadable("argument count", n); err != nil {
		return err
	}
	cw.symbols.Reference(f, symboltable.Function, cw.pos)

	returnAddress := returnLabel(cw.currentFunctionName, f, cw.nextLabelID())
	code := []string{"@" + returnAddress, "D=A"}
	code = append(code, pushD()...)
	for _, saved := range []string{"LCL", "ARG", "THIS", "THAT"} {
		code = append(code, "@"+saved, "D=M")
		code = append(code, pushD()...)
	}
	code = append(code,
		"@SP", "D=M", address(n), "D=D-A", "@5", "D=D-A", "@ARG", "M=D", // ARG = SP - n - 5
		"@SP", "D=M", "@LCL", "M=D", // LCL = SP
		"@"+f, "0;JMP",
		"("+returnAddress+")",
	)
	cw.fPrintln(code...)
	return nil
}

func (cw *CodeWriter) writeReturn() error {
	if _, err := cw.enclosingFunction(); err != nil {
		return err
	}

	code := []string{
		"@LCL", "D=M", "@R13", "M=D", // frame = LCL
		"@5", "A=D-A", "D=M", "@R14", "M=D", // ret = *(frame - 5)
	}
	code = append(code, popD()...)
	code = append(code,
		"@ARG", "A=M", "M=D", // *ARG = pop()
		"@ARG", "D=M", "@SP", "M=D+1", // SP = ARG + 1
		"@R13", "AM=M-1", "D=M", "@THAT", "M=D", // THAT = *(frame - 1)
		"@R13", "AM=M-1", "D=M", "@THIS", "M=D", // THIS = *(frame - 2)
		"@R13", "AM=M-1", "D=M", "@ARG", "M=D", // ARG = *(frame - 3)
		"@R13", "AM=M-1", "D=M", "@LCL", "M=D", // LCL = *(frame - 4)
		"@R14", "A=M", "0;JMP", // goto ret
	)
	cw.fPrintln(code...)
	return nil
}
