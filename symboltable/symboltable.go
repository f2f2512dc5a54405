package symboltable

import (
	"errors"
	"fmt"

	"github.com/ebakazu/vmtranslator/vm"
)

type Kind int

const (
	Function Kind = iota
	Label
	None
)

var kindMap = map[Kind]string{
	Function: "function",
	Label:    "label",
	None:     "none",
}

func (k Kind) String() string {
	return kindMap[k]
}

var (
	ErrUndefined = errors.New("undefined")
	ErrDuplicate = errors.New("duplicate definition of")
)

// Error reports a symbol that is defined twice or referenced but never defined.
type Error struct {
	Name string
	Kind Kind
	Pos  vm.Pos
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v %s %s", e.Pos, e.Err, e.Kind, e.Name)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type table struct {
	kind Kind
	pos  vm.Pos
}

type reference struct {
	name string
	kind Kind
	pos  vm.Pos
}

// SymbolTable records the assembly symbols a translation defines and the
// ones it jumps to, so forward references can be checked once the whole
// program has been seen.
type SymbolTable struct {
	defined    map[string]table
	references []reference
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{defined: map[string]table{}}
}

// Define records name as anchored at pos.
func (st *SymbolTable) Define(name string, kind Kind, pos vm.Pos) error {
	if _, ok := st.defined[name]; ok {
		return &Error{Name: name, Kind: kind, Pos: pos, Err: ErrDuplicate}
	}
	st.defined[name] = table{kind: kind, pos: pos}
	return nil
}

// Reference records a jump to name from pos.
func (st *SymbolTable) Reference(name string, kind Kind, pos vm.Pos) {
	st.references = append(st.references, reference{name: name, kind: kind, pos: pos})
}

func (st *SymbolTable) KindOf(name string) Kind {
	if t, ok := st.defined[name]; ok {
		return t.kind
	}
	return None
}

func (st *SymbolTable) PosOf(name string) (vm.Pos, bool) {
	t, ok := st.defined[name]
	return t.pos, ok
}

// Check returns an error for the first reference, in emission order, whose
// target was never defined with the expected kind.
func (st *SymbolTable) Check() error {
	for _, r := range st.references {
		if st.KindOf(r.name) != r.kind {
			return &Error{Name: r.name, Kind: r.kind, Pos: r.pos, Err: ErrUndefined}
		}
	}
	return nil
}
