package vm

import "fmt"

type CommandType int
type Segment int
type Op int

const (
	CArithmetic CommandType = iota
	CPush
	CPop
	CLabel
	CGoto
	CIfGoto
	CFunction
	CReturn
	CCall
)

const (
	Constant Segment = iota
	Argument
	Local
	Static
	This
	That
	Pointer
	Temp
)

const (
	Add Op = iota
	Sub
	Neg
	Eq
	Gt
	Lt
	And
	Or
	Not
)

var commandTypeMap = map[CommandType]string{
	CArithmetic: "arithmetic",
	CPush:       "push",
	CPop:        "pop",
	CLabel:      "label",
	CGoto:       "goto",
	CIfGoto:     "if-goto",
	CFunction:   "function",
	CReturn:     "return",
	CCall:       "call",
}

var segmentMap = map[Segment]string{
	Constant: "constant",
	Argument: "argument",
	Local:    "local",
	Static:   "static",
	This:     "this",
	That:     "that",
	Pointer:  "pointer",
	Temp:     "temp",
}

var opMap = map[Op]string{
	Add: "add",
	Sub: "sub",
	Neg: "neg",
	Eq:  "eq",
	Gt:  "gt",
	Lt:  "lt",
	And: "and",
	Or:  "or",
	Not: "not",
}

var (
	segmentByName = map[string]Segment{}
	opByName      = map[string]Op{}
)

func init() {
	for s, name := range segmentMap {
		segmentByName[name] = s
	}
	for op, name := range opMap {
		opByName[name] = op
	}
}

func (t CommandType) String() string {
	if s, ok := commandTypeMap[t]; ok {
		return s
	}
	return fmt.Sprintf("CommandType(%d)", int(t))
}

func (s Segment) String() string {
	if name, ok := segmentMap[s]; ok {
		return name
	}
	return fmt.Sprintf("Segment(%d)", int(s))
}

func (op Op) String() string {
	if name, ok := opMap[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// LookupSegment returns the segment named by a VM-language segment token.
func LookupSegment(name string) (Segment, bool) {
	s, ok := segmentByName[name]
	return s, ok
}

// LookupOp returns the arithmetic operation named by mnemonic.
func LookupOp(mnemonic string) (Op, bool) {
	op, ok := opByName[mnemonic]
	return op, ok
}

// Unary reports whether op takes a single operand.
func (op Op) Unary() bool {
	return op == Neg || op == Not
}

// Comparison reports whether op produces a true/false sentinel.
func (op Op) Comparison() bool {
	return op == Eq || op == Gt || op == Lt
}

// Pos locates a command in its source unit.
type Pos struct {
	Unit string
	Line int
}

func (p Pos) String() string {
	if p.Unit == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.Unit, p.Line)
}

// Command is one classified VM-language line.
//
// Which fields are meaningful depends on Type: Op for CArithmetic,
// Segment and Index for CPush/CPop, Name for the flow commands and
// function/call, N for nLocals/nArgs.
type Command struct {
	Type    CommandType
	Op      Op
	Segment Segment
	Index   int
	Name    string
	N       int
	Pos     Pos
}

func Arithmetic(op Op) Command {
	return Command{Type: CArithmetic, Op: op}
}

func Push(segment Segment, index int) Command {
	return Command{Type: CPush, Segment: segment, Index: index}
}

func Pop(segment Segment, index int) Command {
	return Command{Type: CPop, Segment: segment, Index: index}
}

func Label(name string) Command {
	return Command{Type: CLabel, Name: name}
}

func Goto(name string) Command {
	return Command{Type: CGoto, Name: name}
}

func IfGoto(name string) Command {
	return Command{Type: CIfGoto, Name: name}
}

func Function(name string, nLocals int) Command {
	return Command{Type: CFunction, Name: name, N: nLocals}
}

func Call(name string, nArgs int) Command {
	return Command{Type: CCall, Name: name, N: nArgs}
}

func Return() Command {
	return Command{Type: CReturn}
}

// String renders the command in VM-language syntax.
func (c Command) String() string {
	switch c.Type {
	case CArithmetic:
		return c.Op.String()
	case CPush, CPop:
		return fmt.Sprintf("%s %s %d", c.Type, c.Segment, c.Index)
	case CLabel, CGoto, CIfGoto:
		return fmt.Sprintf("%s %s", c.Type, c.Name)
	case CFunction, CCall:
		return fmt.Sprintf("%s %s %d", c.Type, c.Name, c.N)
	case CReturn:
		return "return"
	}
	return c.Type.String()
}
