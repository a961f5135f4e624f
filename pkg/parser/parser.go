// Package parser turns source text into an instruction tree.
// Lexing keeps the eight command characters; building matches loop
// delimiters into nested Loop nodes.
package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tapewalk/tapewalk/pkg/types"
)

// StructuralError reports a close-delimiter with no pending open-delimiter.
type StructuralError struct {
	// Index of the offending opcode in the filtered stream
	Index int
	// Pos is the source position, when known
	Pos lexer.Position
}

func (e *StructuralError) Error() string {
	msg := fmt.Sprintf("close-delimiter without matching open-delimiter at position %d", e.Index)
	if e.Pos.Line > 0 {
		msg += fmt.Sprintf(" (%s)", e.Pos)
	}
	return msg
}

// UnclosedLoopError reports an open-delimiter that is never closed.
// Only raised in strict mode.
type UnclosedLoopError struct {
	Index int
	Pos   lexer.Position
}

func (e *UnclosedLoopError) Error() string {
	msg := fmt.Sprintf("open-delimiter without matching close-delimiter at position %d", e.Index)
	if e.Pos.Line > 0 {
		msg += fmt.Sprintf(" (%s)", e.Pos)
	}
	return msg
}

// Options controls structural parsing.
type Options struct {
	// Strict rejects a trailing unclosed loop instead of dropping it
	Strict bool
}

// Build parses an opcode stream into an instruction tree.
//
// A close-delimiter at depth zero is a *StructuralError. A loop still open
// when the stream ends is discarded together with its contents.
func Build(ops []types.Opcode) ([]types.Instruction, error) {
	return BuildWith(ops, Options{})
}

// BuildWith is Build with explicit options.
func BuildWith(ops []types.Opcode, opts Options) ([]types.Instruction, error) {
	program := make([]types.Instruction, 0, len(ops))
	depth := 0
	start := 0

	for i, op := range ops {
		if depth == 0 {
			switch op {
			case types.OpLoopOpen:
				start = i
				depth++
			case types.OpLoopClose:
				return nil, &StructuralError{Index: i}
			default:
				inst, _ := types.FromOpcode(op)
				program = append(program, inst)
			}
			continue
		}

		// Inside a loop only the delimiters matter; the body is parsed
		// once its extent is known.
		switch op {
		case types.OpLoopOpen:
			depth++
		case types.OpLoopClose:
			depth--
			if depth == 0 {
				body, err := BuildWith(ops[start+1:i], opts)
				if err != nil {
					return nil, offset(err, start+1)
				}
				program = append(program, &types.Loop{Body: body})
			}
		}
	}

	if depth > 0 && opts.Strict {
		return nil, &UnclosedLoopError{Index: start}
	}
	return program, nil
}

// offset shifts the index of an error raised on a sub-slice back into the
// coordinates of the enclosing stream.
func offset(err error, by int) error {
	switch e := err.(type) {
	case *StructuralError:
		return &StructuralError{Index: e.Index + by, Pos: e.Pos}
	case *UnclosedLoopError:
		return &UnclosedLoopError{Index: e.Index + by, Pos: e.Pos}
	}
	return err
}

// Parse filters and builds source text in compatibility mode.
func Parse(source string) ([]types.Instruction, error) {
	return ParseWith("", source, Options{})
}

// ParseWith filters and builds source text, attaching source positions to
// structural errors.
func ParseWith(filename, source string, opts Options) ([]types.Instruction, error) {
	tokens, err := Lex(filename, source)
	if err != nil {
		return nil, err
	}
	program, err := BuildWith(Opcodes(tokens), opts)
	if err != nil {
		switch e := err.(type) {
		case *StructuralError:
			e.Pos = tokens[e.Index].Pos
		case *UnclosedLoopError:
			e.Pos = tokens[e.Index].Pos
		}
		return nil, err
	}
	return program, nil
}
