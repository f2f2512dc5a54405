package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ebakazu/vmtranslator/vm"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrOperand        = errors.New("malformed operands")
	ErrSegment        = errors.New("unknown segment")
)

// SyntaxError reports a line that could not be classified.
type SyntaxError struct {
	Pos  vm.Pos
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %v: %q", e.Pos, e.Err, e.Text)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

var commandTable = map[string]vm.CommandType{
	"add":      vm.CArithmetic,
	"sub":      vm.CArithmetic,
	"neg":      vm.CArithmetic,
	"eq":       vm.CArithmetic,
	"gt":       vm.CArithmetic,
	"lt":       vm.CArithmetic,
	"and":      vm.CArithmetic,
	"or":       vm.CArithmetic,
	"not":      vm.CArithmetic,
	"push":     vm.CPush,
	"pop":      vm.CPop,
	"label":    vm.CLabel,
	"goto":     vm.CGoto,
	"if-goto":  vm.CIfGoto,
	"function": vm.CFunction,
	"return":   vm.CReturn,
	"call":     vm.CCall,
}

// number of tokens, mnemonic included
var arity = map[vm.CommandType]int{
	vm.CArithmetic: 1,
	vm.CPush:       3,
	vm.CPop:        3,
	vm.CLabel:      2,
	vm.CGoto:       2,
	vm.CIfGoto:     2,
	vm.CFunction:   3,
	vm.CReturn:     1,
	vm.CCall:       3,
}

var identRegexp = regexp.MustCompile(`^[a-zA-Z_.:][a-zA-Z0-9_.:]*$`)

// ValidIdentifier reports whether name can be used as a label or function name.
func ValidIdentifier(name string) bool {
	return identRegexp.MatchString(name)
}

// Parser classifies the lines of one VM-language source unit.
// It moves forward only; to start over build a new Parser.
type Parser struct {
	name    string
	scanner *bufio.Scanner
	line    int
	command vm.Command
	err     error
}

func NewParser(name string, reader io.Reader) *Parser {
	return &Parser{name: name, scanner: bufio.NewScanner(reader)}
}

// Name returns the unit name the parser was built with.
func (p *Parser) Name() string {
	return p.name
}

// Scan advances to the next command. It returns false at the end of the
// input or on the first error, which Err then reports.
func (p *Parser) Scan() bool {
	if p.err != nil {
		return false
	}
	for p.scanner.Scan() {
		p.line++
		txt := stripComment(p.scanner.Text())
		if txt == "" {
			continue
		}

		c, err := p.classify(txt)
		if err != nil {
			p.err = err
			return false
		}
		p.command = c
		return true
	}
	p.err = p.scanner.Err()
	return false
}

// Command returns the command produced by the last successful Scan.
func (p *Parser) Command() vm.Command {
	return p.command
}

func (p *Parser) Err() error {
	return p.err
}

// Parse classifies every remaining line.
func (p *Parser) Parse() ([]vm.Command, error) {
	var commands []vm.Command
	for p.Scan() {
		commands = append(commands, p.Command())
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return commands, nil
}

func stripComment(txt string) string {
	if i := strings.Index(txt, "//"); i >= 0 {
		txt = txt[:i]
	}
	return strings.TrimSpace(txt)
}

func (p *Parser) classify(txt string) (vm.Command, error) {
	pos := vm.Pos{Unit: p.name, Line: p.line}
	fail := func(err error) (vm.Command, error) {
		return vm.Command{}, &SyntaxError{Pos: pos, Text: txt, Err: err}
	}

	fields := strings.Fields(txt)
	cType, ok := commandTable[fields[0]]
	if !ok {
		return fail(ErrUnknownCommand)
	}
	if len(fields) != arity[cType] {
		return fail(fmt.Errorf("%w: %s takes %d operand(s), got %d", ErrOperand, fields[0], arity[cType]-1, len(fields)-1))
	}

	c := vm.Command{Type: cType, Pos: pos}
	switch cType {
	case vm.CArithmetic:
		c.Op, _ = vm.LookupOp(fields[0])
	case vm.CPush, vm.CPop:
		seg, ok := vm.LookupSegment(fields[1])
		if !ok {
			return fail(fmt.Errorf("%w: %s", ErrSegment, fields[1]))
		}
		idx, err := parseCount(fields[2])
		if err != nil {
			return fail(err)
		}
		c.Segment, c.Index = seg, idx
	case vm.CLabel, vm.CGoto, vm.CIfGoto:
		if !ValidIdentifier(fields[1]) {
			return fail(fmt.Errorf("%w: invalid label name %s", ErrOperand, fields[1]))
		}
		c.Name = fields[1]
	case vm.CFunction, vm.CCall:
		if !ValidIdentifier(fields[1]) {
			return fail(fmt.Errorf("%w: invalid function name %s", ErrOperand, fields[1]))
		}
		n, err := parseCount(fields[2])
		if err != nil {
			return fail(err)
		}
		c.Name, c.N = fields[1], n
	}
	return c, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || s[0] < '0' || s[0] > '9' {
		return 0, fmt.Errorf("%w: %s is not a non-negative integer", ErrOperand, s)
	}
	return n, nil
}
