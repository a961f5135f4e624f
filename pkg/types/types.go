// Package types defines the opcode alphabet and the instruction tree.
// Opcodes are what survives lexical filtering; instructions are what the
// interpreter walks.
package types

import (
	"fmt"
	"strings"
)

// Opcode is one of the eight recognized command characters.
type Opcode byte

const (
	OpIncrement Opcode = iota // +
	OpDecrement               // -
	OpMoveRight               // >
	OpMoveLeft                // <
	OpOutput                  // .
	OpInput                   // ,
	OpLoopOpen                // [
	OpLoopClose               // ]
)

var opcodeChars = [...]rune{
	OpIncrement: '+',
	OpDecrement: '-',
	OpMoveRight: '>',
	OpMoveLeft:  '<',
	OpOutput:    '.',
	OpInput:     ',',
	OpLoopOpen:  '[',
	OpLoopClose: ']',
}

// OpcodeFor maps a source character to its opcode.
// Any other character is a comment and reports false.
func OpcodeFor(r rune) (Opcode, bool) {
	switch r {
	case '+':
		return OpIncrement, true
	case '-':
		return OpDecrement, true
	case '>':
		return OpMoveRight, true
	case '<':
		return OpMoveLeft, true
	case '.':
		return OpOutput, true
	case ',':
		return OpInput, true
	case '[':
		return OpLoopOpen, true
	case ']':
		return OpLoopClose, true
	}
	return 0, false
}

// Char returns the source character for the opcode.
func (o Opcode) Char() rune {
	if int(o) < len(opcodeChars) {
		return opcodeChars[o]
	}
	return '?'
}

func (o Opcode) String() string {
	if int(o) < len(opcodeChars) {
		return string(opcodeChars[o])
	}
	return fmt.Sprintf("Opcode(%d)", byte(o))
}

// Instruction is a node of the program tree.
type Instruction interface {
	// String renders the instruction back to source text
	String() string
	// Type returns the instruction name for traces and errors
	Type() string
	// Equal checks structural equality with another instruction
	Equal(other Instruction) bool
}

// Increment adds one to the current cell
type Increment struct{}

func (Increment) String() string { return "+" }
func (Increment) Type() string   { return "increment" }

func (Increment) Equal(other Instruction) bool {
	_, ok := other.(Increment)
	return ok
}

// Decrement subtracts one from the current cell
type Decrement struct{}

func (Decrement) String() string { return "-" }
func (Decrement) Type() string   { return "decrement" }

func (Decrement) Equal(other Instruction) bool {
	_, ok := other.(Decrement)
	return ok
}

// MoveRight advances the pointer, growing the tape at its right edge
type MoveRight struct{}

func (MoveRight) String() string { return ">" }
func (MoveRight) Type() string   { return "move-right" }

func (MoveRight) Equal(other Instruction) bool {
	_, ok := other.(MoveRight)
	return ok
}

// MoveLeft retreats the pointer, wrapping at index 0
type MoveLeft struct{}

func (MoveLeft) String() string { return "<" }
func (MoveLeft) Type() string   { return "move-left" }

func (MoveLeft) Equal(other Instruction) bool {
	_, ok := other.(MoveLeft)
	return ok
}

// Output emits the current cell as a character
type Output struct{}

func (Output) String() string { return "." }
func (Output) Type() string   { return "output" }

func (Output) Equal(other Instruction) bool {
	_, ok := other.(Output)
	return ok
}

// Input stores one input byte into the current cell
type Input struct{}

func (Input) String() string { return "," }
func (Input) Type() string   { return "input" }

func (Input) Equal(other Instruction) bool {
	_, ok := other.(Input)
	return ok
}

// Loop runs its body while the current cell is non-zero.
// A Loop exclusively owns its body.
type Loop struct {
	Body []Instruction
}

func (l *Loop) String() string {
	return "[" + Format(l.Body) + "]"
}

func (l *Loop) Type() string { return "loop" }

func (l *Loop) Equal(other Instruction) bool {
	if o, ok := other.(*Loop); ok {
		return EqualPrograms(l.Body, o.Body)
	}
	return false
}

// FromOpcode returns the atomic instruction for op.
// Loop delimiters have no atomic form and report false.
func FromOpcode(op Opcode) (Instruction, bool) {
	switch op {
	case OpIncrement:
		return Increment{}, true
	case OpDecrement:
		return Decrement{}, true
	case OpMoveRight:
		return MoveRight{}, true
	case OpMoveLeft:
		return MoveLeft{}, true
	case OpOutput:
		return Output{}, true
	case OpInput:
		return Input{}, true
	}
	return nil, false
}

// Format renders a program back to canonical source text.
func Format(program []Instruction) string {
	var sb strings.Builder
	for _, inst := range program {
		sb.WriteString(inst.String())
	}
	return sb.String()
}

// EqualPrograms compares two instruction sequences node by node.
func EqualPrograms(a, b []Instruction) bool {
	if len(a) != len(b) {
		return false
	}
	for i, inst := range a {
		if !inst.Equal(b[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in a program, loops included.
func Count(program []Instruction) int {
	n := 0
	for _, inst := range program {
		n++
		if l, ok := inst.(*Loop); ok {
			n += Count(l.Body)
		}
	}
	return n
}
