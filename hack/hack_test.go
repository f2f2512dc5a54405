package hack

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func assemble(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble() = %v", err)
	}
	return prog
}

func TestEncode(t *testing.T) {
	tests := []struct {
		line string
		want uint16
	}{
		{"@2", 0b0000000000000010},
		{"@32767", 0b0111111111111111},
		{"@THAT", 4},
		{"@R15", 15},
		{"D=A", 0b1110110000010000},
		{"D=D+A", 0b1110000010010000},
		{"M=D", 0b1110001100001000},
		{"AM=M-1", 0b1111110010101000},
		{"MA=M-1", 0b1111110010101000},
		{"AMD=!M", 0b1111110001111000},
		{"0;JMP", 0b1110101010000111},
		{"D;JNE", 0b1110001100000101},
		{"M=-1", 0b1110111010001000},
	}
	for _, tc := range tests {
		prog := assemble(t, tc.line)
		if len(prog.Words) != 1 || prog.Words[0] != tc.want {
			t.Errorf("Assemble(%q) = %016b; want %016b", tc.line, prog.Words, tc.want)
		}
	}
}

func TestLabels(t *testing.T) {
	prog := assemble(t, `// loop forever
($start)
@Main.main$LOOP
0;JMP
(Main.main$LOOP)   // anchor
  @$start
0;JMP
`)
	want := []uint16{2, 0b1110101010000111, 0, 0b1110101010000111}
	if len(prog.Words) != len(want) {
		t.Fatalf("got %d words; want %d", len(prog.Words), len(want))
	}
	for i := range want {
		if prog.Words[i] != want[i] {
			t.Errorf("word %d = %016b; want %016b", i, prog.Words[i], want[i])
		}
	}
	if got := prog.Symbols["Main.main$LOOP"]; got != 2 {
		t.Errorf("Main.main$LOOP = %d; want 2", got)
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"@counter", ErrSymbol},
		{"@SCREEN", ErrSymbol},
		{"@32768", ErrSyntax},
		{"@1x", ErrSyntax},
		{"@a-b", ErrSyntax},
		{"D=M+D", ErrSyntax},
		{"X=1", ErrSyntax},
		{"DD=1", ErrSyntax},
		{"0;JUMP", ErrSyntax},
		{"(L)\n(L)", ErrDuplicate},
		{"(SP)", ErrDuplicate},
		{"(1L)", ErrSyntax},
	}
	for _, tc := range tests {
		_, err := Assemble(strings.NewReader(tc.src))
		if !errors.Is(err, tc.want) {
			t.Errorf("Assemble(%q) = %v; want %v", tc.src, err, tc.want)
		}
	}
}

func TestAssembleErrorLine(t *testing.T) {
	_, err := Assemble(strings.NewReader("@1\n\nD=A\n@nowhere\n"))
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v; want *Error", err)
	}
	if ae.Line != 4 || ae.Text != "nowhere" {
		t.Errorf("err = %+v; want line 4, text nowhere", ae)
	}
}

func TestWriteBinary(t *testing.T) {
	prog := assemble(t, "@2\nD=A\n")
	var buf bytes.Buffer
	if err := prog.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}
	want := "0000000000000010\n1110110000010000\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteBinary() =\n%s\nwant\n%s", got, want)
	}
}

func TestCPUAdd(t *testing.T) {
	// RAM[0] = 2 + 3
	cpu := NewCPU(assemble(t, "@2\nD=A\n@3\nD=D+A\n@0\nM=D\n"))
	if err := cpu.Run(100); err != nil {
		t.Fatal(err)
	}
	if cpu.RAM[0] != 5 {
		t.Errorf("RAM[0] = %d; want 5", cpu.RAM[0])
	}
	if cpu.Steps != 6 || !cpu.Halted() {
		t.Errorf("Steps = %d, Halted = %v; want 6, true", cpu.Steps, cpu.Halted())
	}
}

func TestCPUMax(t *testing.T) {
	// RAM[2] = max(RAM[0], RAM[1]), ending in the usual halt loop
	src := `
@R0
D=M
@R1
D=D-M
@FIRST
D;JGT
@R1
D=M
@STORE
0;JMP
(FIRST)
@R0
D=M
(STORE)
@R2
M=D
(END)
@END
0;JMP
`
	tests := []struct{ a, b, want int16 }{
		{3, 9, 9},
		{9, 3, 9},
		{-4, -7, -4},
	}
	for _, tc := range tests {
		cpu := NewCPU(assemble(t, src))
		cpu.RAM[0], cpu.RAM[1] = tc.a, tc.b
		if err := cpu.Run(1000); err != nil {
			t.Fatal(err)
		}
		if cpu.RAM[2] != tc.want {
			t.Errorf("max(%d, %d) = %d; want %d", tc.a, tc.b, cpu.RAM[2], tc.want)
		}
	}
}

func TestCPUWritesBeforeAddressChange(t *testing.T) {
	// AM=M-1 stores through the old A, then moves A
	cpu := NewCPU(assemble(t, "@SP\nAM=M-1\nD=M\n"))
	cpu.RAM[SP] = 258
	cpu.RAM[257] = 42
	if err := cpu.Run(10); err != nil {
		t.Fatal(err)
	}
	if cpu.RAM[SP] != 257 || cpu.A != 257 || cpu.D != 42 {
		t.Errorf("SP = %d, A = %d, D = %d; want 257, 257, 42", cpu.RAM[SP], cpu.A, cpu.D)
	}
}

func TestCPUErrors(t *testing.T) {
	cpu := NewCPU(assemble(t, "(L)\n@L\n0;JEQ\n@L\nD;JEQ\n"))
	if err := cpu.Run(50); !errors.Is(err, ErrStepLimit) {
		t.Errorf("endless loop: Run() = %v; want ErrStepLimit", err)
	}

	cpu = NewCPU(assemble(t, "D=-1\nA=D\nM=1\n"))
	if err := cpu.Run(10); !errors.Is(err, ErrAddress) {
		t.Errorf("negative address: Run() = %v; want ErrAddress", err)
	}
}

func TestALU(t *testing.T) {
	tests := []struct {
		comp string
		x, y int16
		want int16
	}{
		{"0", 5, 7, 0},
		{"1", 5, 7, 1},
		{"-1", 5, 7, -1},
		{"D", 5, 7, 5},
		{"A", 5, 7, 7},
		{"!D", 5, 7, ^int16(5)},
		{"-A", 5, 7, -7},
		{"D+1", 5, 7, 6},
		{"A-1", 5, 7, 6},
		{"D+A", 5, 7, 12},
		{"D-A", 5, 7, -2},
		{"A-D", 5, 7, 2},
		{"D&A", 6, 3, 2},
		{"D|A", 6, 3, 7},
		{"D+A", 32767, 1, -32768},
	}
	for _, tc := range tests {
		bits, ok := Comp(tc.comp)
		if !ok {
			t.Fatalf("Comp(%q) unknown", tc.comp)
		}
		if got := alu(bits&0x3f, tc.x, tc.y); got != tc.want {
			t.Errorf("alu(%s, %d, %d) = %d; want %d", tc.comp, tc.x, tc.y, got, tc.want)
		}
	}
}
