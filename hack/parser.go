package hack

import (
	"bufio"
	"io"
	"strings"
)

type commandType int

const (
	A commandType = iota
	C
	L
)

// Parser reads Hack assembly one line at a time.
type Parser struct {
	scanner     *bufio.Scanner
	Line        int
	Command     string
	CommandType commandType
	Comp        string
	Dest        string
	Jump        string
}

func NewParser(r io.Reader) *Parser {
	return &Parser{scanner: bufio.NewScanner(r)}
}

func (p *Parser) Scan() bool {
	return p.scanner.Scan()
}

func (p *Parser) Err() error {
	return p.scanner.Err()
}

// Advance decodes the line read by the last Scan. Command is left empty for
// blank and comment-only lines.
func (p *Parser) Advance() {
	p.Line++
	txt := p.scanner.Text()
	if i := strings.Index(txt, "//"); i >= 0 { // trim comment
		txt = txt[:i]
	}
	txt = strings.TrimSpace(txt)

	p.Command = txt
	p.Dest = ""
	p.Comp = ""
	p.Jump = ""

	if txt == "" {
		return
	}

	if strings.HasPrefix(txt, "@") {
		p.Command = strings.TrimPrefix(txt, "@")
		p.CommandType = A
		return
	}

	if strings.HasPrefix(txt, "(") && strings.HasSuffix(txt, ")") {
		p.Command = strings.TrimSuffix(strings.TrimPrefix(txt, "("), ")")
		p.CommandType = L
		return
	}

	rest := txt
	if i := strings.Index(rest, "="); i >= 0 {
		p.Dest = rest[:i]
		rest = rest[i+1:]
	}
	if i := strings.Index(rest, ";"); i >= 0 {
		p.Jump = rest[i+1:]
		rest = rest[:i]
	}
	p.Comp = rest
	p.CommandType = C
}

func (p *Parser) Symbol() string {
	switch p.CommandType {
	case A, L:
		return p.Command
	default:
		return ""
	}
}
