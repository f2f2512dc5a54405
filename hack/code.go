package hack

import (
	"fmt"
	"io"
	"strings"
)

// a-bit followed by c1..c6
var compTable = map[string]uint16{
	"0":   0b0101010,
	"1":   0b0111111,
	"-1":  0b0111010,
	"D":   0b0001100,
	"A":   0b0110000,
	"!D":  0b0001101,
	"!A":  0b0110001,
	"-D":  0b0001111,
	"-A":  0b0110011,
	"D+1": 0b0011111,
	"A+1": 0b0110111,
	"D-1": 0b0001110,
	"A-1": 0b0110010,
	"D+A": 0b0000010,
	"D-A": 0b0010011,
	"A-D": 0b0000111,
	"D&A": 0b0000000,
	"D|A": 0b0010101,
	"M":   0b1110000,
	"!M":  0b1110001,
	"-M":  0b1110011,
	"M+1": 0b1110111,
	"M-1": 0b1110010,
	"D+M": 0b1000010,
	"D-M": 0b1010011,
	"M-D": 0b1000111,
	"D&M": 0b1000000,
	"D|M": 0b1010101,
}

var jumpTable = map[string]uint16{
	"":    0b000,
	"JGT": 0b001,
	"JEQ": 0b010,
	"JGE": 0b011,
	"JLT": 0b100,
	"JNE": 0b101,
	"JLE": 0b110,
	"JMP": 0b111,
}

const (
	destM = 1 << iota
	destD
	destA
)

func Comp(mnemonic string) (uint16, bool) {
	bits, ok := compTable[mnemonic]
	return bits, ok
}

// Dest accepts any ordering of A, D and M, each at most once.
func Dest(mnemonic string) (uint16, bool) {
	var bits uint16
	for _, c := range mnemonic {
		var b uint16
		switch c {
		case 'M':
			b = destM
		case 'D':
			b = destD
		case 'A':
			b = destA
		default:
			return 0, false
		}
		if bits&b != 0 {
			return 0, false
		}
		bits |= b
	}
	return bits, true
}

func Jump(mnemonic string) (uint16, bool) {
	bits, ok := jumpTable[mnemonic]
	return bits, ok
}

func encodeC(comp, dest, jump string) (uint16, error) {
	c, ok := Comp(comp)
	if !ok {
		return 0, fmt.Errorf("%w: comp %q", ErrSyntax, comp)
	}
	d, ok := Dest(dest)
	if !ok {
		return 0, fmt.Errorf("%w: dest %q", ErrSyntax, dest)
	}
	j, ok := Jump(jump)
	if !ok {
		return 0, fmt.Errorf("%w: jump %q", ErrSyntax, jump)
	}
	return 0b111<<13 | c<<6 | d<<3 | j, nil
}

// WriteBinary writes the program in .hack text form, one 16-digit binary
// word per line.
func (p *Program) WriteBinary(w io.Writer) error {
	var sb strings.Builder
	for _, word := range p.Words {
		fmt.Fprintf(&sb, "%016b\n", word)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
