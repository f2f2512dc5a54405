// Package hack is a strict assembler and an emulator for the Hack machine,
// used to check translated programs by running them.
package hack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

var (
	ErrSyntax    = errors.New("syntax error")
	ErrSymbol    = errors.New("unknown symbol")
	ErrDuplicate = errors.New("duplicate label")
	ErrAddress   = errors.New("address out of range")
	ErrStepLimit = errors.New("step limit reached")
)

// Error locates an assembly failure.
type Error struct {
	Line int
	Text string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Predefined symbols. No variable symbols are allocated: every other name
// must be a label.
const (
	SP = iota
	LCL
	ARG
	THIS
	THAT
)

var predefined = map[string]int{
	"SP":   SP,
	"LCL":  LCL,
	"ARG":  ARG,
	"THIS": THIS,
	"THAT": THAT,
}

func init() {
	for i := 0; i < 16; i++ {
		predefined["R"+strconv.Itoa(i)] = i
	}
}

var symbolRegexp = regexp.MustCompile(`^[a-zA-Z_.$:][a-zA-Z0-9_.$:]*$`)

const maxAddress = 1<<15 - 1

// Program is an assembled Hack program.
type Program struct {
	Words   []uint16
	Symbols map[string]int
}

// Assemble translates Hack assembly into machine words in two passes: the
// first binds labels to ROM addresses, the second encodes instructions.
func Assemble(r io.Reader) (*Program, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	symbols := make(map[string]int, len(predefined))
	for name, addr := range predefined {
		symbols[name] = addr
	}

	p := NewParser(bytes.NewReader(src))
	rom := 0
	for p.Scan() {
		p.Advance()
		if p.Command == "" {
			continue
		}
		switch p.CommandType {
		case L:
			sym := p.Symbol()
			if !symbolRegexp.MatchString(sym) {
				return nil, &Error{Line: p.Line, Text: sym, Err: ErrSyntax}
			}
			if _, ok := symbols[sym]; ok {
				return nil, &Error{Line: p.Line, Text: sym, Err: ErrDuplicate}
			}
			symbols[sym] = rom
		default:
			rom++
		}
	}
	if err := p.Err(); err != nil {
		return nil, err
	}

	prog := &Program{Words: make([]uint16, 0, rom), Symbols: symbols}
	p = NewParser(bytes.NewReader(src))
	for p.Scan() {
		p.Advance()
		if p.Command == "" {
			continue
		}
		switch p.CommandType {
		case A:
			value, err := resolve(p.Symbol(), symbols)
			if err != nil {
				return nil, &Error{Line: p.Line, Text: p.Symbol(), Err: err}
			}
			prog.Words = append(prog.Words, uint16(value))
		case C:
			word, err := encodeC(p.Comp, p.Dest, p.Jump)
			if err != nil {
				return nil, &Error{Line: p.Line, Text: p.Command, Err: err}
			}
			prog.Words = append(prog.Words, word)
		}
	}
	return prog, p.Err()
}

func resolve(sym string, symbols map[string]int) (int, error) {
	if sym != "" && sym[0] >= '0' && sym[0] <= '9' {
		value, err := strconv.Atoi(sym)
		if err != nil || value > maxAddress {
			return 0, ErrSyntax
		}
		return value, nil
	}
	if value, ok := symbols[sym]; ok {
		return value, nil
	}
	if !symbolRegexp.MatchString(sym) {
		return 0, ErrSyntax
	}
	return 0, ErrSymbol
}
