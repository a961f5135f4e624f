package parser

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tapewalk/tapewalk/pkg/types"
)

// Token is an opcode together with where it appeared in the source.
type Token struct {
	Op  types.Opcode
	Pos lexer.Position
}

// Every rune is either one of the eight command characters or part of a
// comment run, so lexing never fails on well-formed input.
var sourceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Op", Pattern: `[+\-<>.,\[\]]`},
	{Name: "Comment", Pattern: `[^+\-<>.,\[\]]+`},
})

var opToken = sourceLexer.Symbols()["Op"]

// Lex scans source text and returns its opcodes in order, with positions.
// Comment text is dropped.
func Lex(filename, source string) ([]Token, error) {
	lex, err := sourceLexer.LexString(filename, source)
	if err != nil {
		return nil, err
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("lex %s: %w", filename, err)
	}

	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		if tok.Type != opToken {
			continue
		}
		op, ok := types.OpcodeFor([]rune(tok.Value)[0])
		if !ok {
			continue
		}
		tokens = append(tokens, Token{Op: op, Pos: tok.Pos})
	}
	return tokens, nil
}

// Filter keeps the recognized command characters of source and discards
// everything else. It is total: every input, including "", yields a result.
func Filter(source string) []types.Opcode {
	ops := make([]types.Opcode, 0, len(source))
	for _, r := range source {
		if op, ok := types.OpcodeFor(r); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

// Opcodes strips positions from a token stream.
func Opcodes(tokens []Token) []types.Opcode {
	ops := make([]types.Opcode, len(tokens))
	for i, tok := range tokens {
		ops[i] = tok.Op
	}
	return ops
}

// Strip returns source with all comment text removed.
func Strip(source string) string {
	var sb strings.Builder
	for _, op := range Filter(source) {
		sb.WriteRune(op.Char())
	}
	return sb.String()
}
