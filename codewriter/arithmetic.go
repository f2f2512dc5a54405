package codewriter

import (
	"fmt"

	"github.com/ebakazu/vmtranslator/vm"
)

func (cw *CodeWriter) writeArithmetic(op vm.Op) error {
	unary := func(ope string) []string {
		return []string{"@SP", "A=M-1", ope}
	}

	binary := func(ope string) []string {
		return append(popD(), "A=A-1", ope)
	}

	switch op {
	case vm.Add: // x + y
		cw.fPrintln(binary("M=D+M")...)
	case vm.Sub: // x - y
		cw.fPrintln(binary("M=M-D")...)
	case vm.Neg: // -y
		cw.fPrintln(unary("M=-M")...)
	case vm.Eq, vm.Gt, vm.Lt:
		cw.fPrintln(cw.comparison(op)...)
	case vm.And: // x & y
		cw.fPrintln(binary("M=D&M")...)
	case vm.Or: // x | y
		cw.fPrintln(binary("M=D|M")...)
	case vm.Not: // !y
		cw.fPrintln(unary("M=!M")...)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, op)
	}
	return nil
}

// comparison replaces x and y with -1 when "x op y" holds and 0 otherwise.
func (cw *CodeWriter) comparison(op vm.Op) []string {
	id := cw.nextLabelID()
	trueLabel := syntheticLabel("TRUE", id)
	falseLabel := syntheticLabel("FALSE", id)
	endLabel := syntheticLabel("END", id)

	code := popD() // D = y
	if op == vm.Eq {
		code = append(code, "A=A-1", "D=M-D", "@"+trueLabel, "D;JEQ")
	} else {
		// x - y overflows when the signs differ, so the sign decides first.
		xNeg := syntheticLabel("XNEG", id)
		sameSign := syntheticLabel("SAME", id)
		xPosYNeg, xNegYPos, jump := trueLabel, falseLabel, "D;JGT"
		if op == vm.Lt {
			xPosYNeg, xNegYPos, jump = falseLabel, trueLabel, "D;JLT"
		}
		code = append(code,
			"@R13", "M=D",
			"@SP", "A=M-1", "D=M", // D = x
			"@"+xNeg, "D;JLT",
			"@R13", "D=M",
			"@"+xPosYNeg, "D;JLT",
			"@"+sameSign, "0;JMP",
			"("+xNeg+")",
			"@R13", "D=M",
			"@"+xNegYPos, "D;JGE",
			"("+sameSign+")",
			"@R13", "D=M",
			"@SP", "A=M-1", "D=M-D", // D = x - y
			"@"+trueLabel, jump,
		)
	}

	return append(code,
		"("+falseLabel+")",
		"@SP", "A=M-1", "M=0",
		"@"+endLabel, "0;JMP",
		"("+trueLabel+")",
		"@SP", "A=M-1", "M=-1",
		"("+endLabel+")",
	)
}

func (cw *CodeWriter) writePush(segment vm.Segment, index int) error {
	if err := checkLoadable("index", index); err != nil {
		return err
	}

	var code []string
	switch segment {
	case vm.Constant:
		code = []string{address(index), "D=A"}
	case vm.Argument, vm.Local, vm.This, vm.That:
		// D = *(base + index)
		code = []string{address(index), "D=A", "@" + pointerSymbol[segment], "A=D+M", "D=M"}
	case vm.Pointer, vm.Temp, vm.Static:
		addr, err := cw.fixedAddress(segment, index)
		if err != nil {
			return err
		}
		code = []string{address(addr), "D=M"}
	default:
		return fmt.Errorf("%w: %s", ErrSegment, segment)
	}
	cw.fPrintln(append(code, pushD()...)...)
	return nil
}

func (cw *CodeWriter) writePop(segment vm.Segment, index int) error {
	if err := checkLoadable("index", index); err != nil {
		return err
	}

	var code []string
	switch segment {
	case vm.Argument, vm.Local, vm.This, vm.That:
		// R13 = base + index
		code = []string{"@" + pointerSymbol[segment], "D=M", address(index), "D=D+A", "@R13", "M=D"}
		code = append(code, popD()...)
		code = append(code, "@R13", "A=M", "M=D")
	case vm.Pointer, vm.Temp, vm.Static:
		addr, err := cw.fixedAddress(segment, index)
		if err != nil {
			return err
		}
		code = append(popD(), address(addr), "M=D")
	case vm.Constant:
		return fmt.Errorf("%w: constant is not addressable", ErrSegment)
	default:
		return fmt.Errorf("%w: %s", ErrSegment, segment)
	}
	cw.fPrintln(code...)
	return nil
}

func (cw *CodeWriter) fixedAddress(segment vm.Segment, index int) (int, error) {
	switch segment {
	case vm.Pointer:
		if index > 1 {
			return 0, fmt.Errorf("%w: pointer %d", ErrIndex, index)
		}
		return pointerBase + index, nil
	case vm.Temp:
		if index >= tempSize {
			return 0, fmt.Errorf("%w: temp %d", ErrIndex, index)
		}
		return tempBase + index, nil
	case vm.Static:
		return cw.staticAddress(index)
	}
	return 0, fmt.Errorf("%w: %s has no fixed base", ErrSegment, segment)
}

// staticAddress hands out RAM 16..255 to (unit, index) pairs in order of
// first use.
func (cw *CodeWriter) staticAddress(index int) (int, error) {
	key := staticKey{unit: cw.name, index: index}
	if addr, ok := cw.statics[key]; ok {
		return addr, nil
	}
	addr := staticBase + len(cw.statics)
	if addr >= StackBase {
		return 0, fmt.Errorf("%w: static segment exhausted at %s.%d", ErrIndex, cw.name, index)
	}
	cw.statics[key] = addr
	return addr, nil
}
