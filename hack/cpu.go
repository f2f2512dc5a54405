package hack

import "fmt"

const RAMSize = 1 << 15

// CPU executes Hack machine words.
type CPU struct {
	ROM    []uint16
	RAM    [RAMSize]int16
	A      int16
	D      int16
	PC     int
	Steps  int
	halted bool
}

func NewCPU(p *Program) *CPU {
	return &CPU{ROM: p.Words}
}

// Halted reports whether the program ran off the end of ROM or entered the
// conventional "@k / 0;JMP" loop at address k.
func (c *CPU) Halted() bool {
	return c.halted
}

// Run steps until the program halts or maxSteps instructions have executed.
func (c *CPU) Run(maxSteps int) error {
	for i := 0; i < maxSteps && !c.halted; i++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	if !c.halted {
		return fmt.Errorf("%w: %d at pc %d", ErrStepLimit, maxSteps, c.PC)
	}
	return nil
}

// Step executes one instruction.
func (c *CPU) Step() error {
	if c.PC < 0 || c.PC >= len(c.ROM) {
		c.halted = true
		return nil
	}
	ins := c.ROM[c.PC]
	c.Steps++

	if ins&0x8000 == 0 {
		c.A = int16(ins)
		c.PC++
		return nil
	}

	addr := c.A
	comp := ins >> 6 & 0x7f
	dest := ins >> 3 & 0b111
	jump := ins & 0b111

	usesM := comp&0x40 != 0
	if (usesM || dest&destM != 0) && addr < 0 {
		return fmt.Errorf("%w: %d at pc %d", ErrAddress, uint16(addr), c.PC)
	}

	y := c.A
	if usesM {
		y = c.RAM[addr]
	}
	out := alu(comp&0x3f, c.D, y)

	if dest&destM != 0 {
		c.RAM[addr] = out
	}
	if dest&destD != 0 {
		c.D = out
	}
	if dest&destA != 0 {
		c.A = out
	}

	if !jumps(jump, out) {
		c.PC++
		return nil
	}
	target := int(uint16(addr))
	if jump == 0b111 && target == c.PC-1 && c.ROM[target] == uint16(target) {
		c.halted = true
	}
	c.PC = target
	return nil
}

// alu computes the Hack ALU function selected by zx nx zy ny f no.
func alu(bits uint16, x, y int16) int16 {
	if bits&0b100000 != 0 {
		x = 0
	}
	if bits&0b010000 != 0 {
		x = ^x
	}
	if bits&0b001000 != 0 {
		y = 0
	}
	if bits&0b000100 != 0 {
		y = ^y
	}
	var out int16
	if bits&0b000010 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if bits&0b000001 != 0 {
		out = ^out
	}
	return out
}

func jumps(jump uint16, out int16) bool {
	return jump&0b100 != 0 && out < 0 ||
		jump&0b010 != 0 && out == 0 ||
		jump&0b001 != 0 && out > 0
}
