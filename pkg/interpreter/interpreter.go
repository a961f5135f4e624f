// Package interpreter provides the tree-walking execution engine.
// It owns the tape for a run and performs all character I/O.
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/tapewalk/tapewalk/pkg/parser"
	"github.com/tapewalk/tapewalk/pkg/tape"
	"github.com/tapewalk/tapewalk/pkg/types"
)

// LevelTrace sits below debug and is used for per-instruction traces.
const LevelTrace = slog.LevelDebug - 4

// Fallback is emitted for cells that do not hold a Unicode scalar value.
const Fallback = '?'

// ErrGasExhausted is returned when a run uses up its gas budget.
var ErrGasExhausted = errors.New("gas exhausted")

// Interpreter is the execution engine
type Interpreter struct {
	// Memory is the tape the program runs against
	Memory *tape.Tape

	// TapeSize is the initial tape length used by Reset
	TapeSize int

	// Output receives emitted characters (default: os.Stdout)
	Output io.Writer

	// Input supplies bytes for input instructions (default: os.Stdin).
	// A nil Input behaves as exhausted.
	Input io.Reader

	// Gas is the remaining computation budget
	Gas int
	// MaxGas is the starting gas amount (0 = unlimited)
	MaxGas int

	// Steps counts executed instructions and loop checks
	Steps int

	// Strict rejects unclosed loops in RunSource
	Strict bool

	// Debug traces every instruction through Logger
	Debug bool

	Logger *slog.Logger
}

// New creates an Interpreter with a default-sized tape wired to stdio
func New() *Interpreter {
	return &Interpreter{
		Memory:   tape.New(tape.DefaultSize),
		TapeSize: tape.DefaultSize,
		Output:   os.Stdout,
		Input:    os.Stdin,
		Logger:   slog.Default(),
	}
}

// Reset replaces the tape with a fresh one and refills the gas.
func (i *Interpreter) Reset() {
	i.Memory = tape.New(i.TapeSize)
	i.Steps = 0
	i.Refuel()
}

// Refuel restores the gas budget to MaxGas, keeping the tape.
func (i *Interpreter) Refuel() {
	if i.MaxGas > 0 {
		i.Gas = i.MaxGas
	}
}

// consumeGas charges one step and reports whether execution may continue.
func (i *Interpreter) consumeGas() bool {
	i.Steps++
	if i.MaxGas == 0 {
		return true // unlimited
	}
	if i.Gas <= 0 {
		return false
	}
	i.Gas--
	return true
}

// SetGas sets the gas budget for subsequent runs (0 = unlimited)
func (i *Interpreter) SetGas(gas int) {
	if gas < 0 {
		gas = 0
	}
	i.MaxGas = gas
	i.Gas = gas
}

// Execute executes a single instruction
func (i *Interpreter) Execute(inst types.Instruction) error {
	if !i.consumeGas() {
		return ErrGasExhausted
	}
	if i.Debug {
		i.trace(inst)
	}

	switch in := inst.(type) {
	case types.Increment:
		i.Memory.Add(1)

	case types.Decrement:
		i.Memory.Add(-1)

	case types.MoveRight:
		i.Memory.Right()

	case types.MoveLeft:
		i.Memory.Left()

	case types.Output:
		return i.output()

	case types.Input:
		i.input()

	case *types.Loop:
		return i.ExecuteLoop(in)

	default:
		return fmt.Errorf("unknown instruction %T", inst)
	}

	return nil
}

// ExecuteLoop runs the loop body while the current cell is non-zero.
// The cell is checked before every iteration, including the first.
func (i *Interpreter) ExecuteLoop(l *types.Loop) error {
	for i.Memory.Get() != 0 {
		if err := i.Run(l.Body); err != nil {
			return err
		}
		if !i.consumeGas() {
			return ErrGasExhausted
		}
	}
	return nil
}

// Run executes a sequence of instructions (the main program or a loop body)
func (i *Interpreter) Run(program []types.Instruction) error {
	for _, inst := range program {
		if err := i.Execute(inst); err != nil {
			return err
		}
	}
	return nil
}

// RunSource parses source in full and then runs it. A structural error
// aborts before any instruction executes.
func (i *Interpreter) RunSource(filename, source string) error {
	program, err := parser.ParseWith(filename, source, parser.Options{Strict: i.Strict})
	if err != nil {
		return err
	}
	return i.Run(program)
}

// output writes the current cell as a character.
func (i *Interpreter) output() error {
	r := rune(i.Memory.Get())
	if !utf8.ValidRune(r) {
		r = Fallback
	}
	if i.Output == nil {
		return nil
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	if _, err := i.Output.Write(buf[:n]); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// input stores one byte into the current cell. Exhausted input leaves the
// cell unchanged.
func (i *Interpreter) input() {
	if i.Input == nil {
		return
	}
	var buf [1]byte
	if _, err := io.ReadFull(i.Input, buf[:]); err != nil {
		if !errors.Is(err, io.EOF) {
			i.logger().Debug("input unavailable", "err", err)
		}
		return
	}
	i.Memory.Set(tape.Cell(buf[0]))
}

func (i *Interpreter) trace(inst types.Instruction) {
	// Loop bodies are elided from traces.
	op := inst.String()
	if _, ok := inst.(*types.Loop); ok {
		op = "[...]"
	}
	i.logger().Log(context.Background(), LevelTrace, "exec",
		"op", op,
		"ptr", i.Memory.Pointer(),
		"cell", i.Memory.Get(),
		"step", i.Steps,
	)
}

func (i *Interpreter) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.Default()
	}
	return i.Logger
}

// TapeString renders the tape around the pointer
func (i *Interpreter) TapeString(window int) string {
	return i.Memory.Render(window)
}

// GasString reports gas usage
func (i *Interpreter) GasString() string {
	if i.MaxGas == 0 {
		return fmt.Sprintf("steps=%d gas=unlimited", i.Steps)
	}
	return fmt.Sprintf("steps=%d gas=%d/%d", i.Steps, i.Gas, i.MaxGas)
}
