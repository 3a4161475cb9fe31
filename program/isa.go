package program

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

type token int

const (
	tokNone token = iota
	tokRight
	tokLeft
	tokIncrease
	tokDecrease
	tokLoopStart
	tokLoopEnd
	tokOutput
	tokInput
)

// OperatorSet maps the eight operators of the language to characters. Every
// other character of a program is a comment.
type OperatorSet struct {
	PointerRight rune
	PointerLeft  rune
	Increase     rune
	Decrease     rune
	LoopStart    rune
	LoopEnd      rune
	Output       rune
	Input        rune
}

// DefaultOperators returns the classic operator characters.
func DefaultOperators() OperatorSet {
	return OperatorSet{
		PointerRight: '>',
		PointerLeft:  '<',
		Increase:     '+',
		Decrease:     '-',
		LoopStart:    '[',
		LoopEnd:      ']',
		Output:       '.',
		Input:        ',',
	}
}

// ParseOperators reads an operator set from a string that lists exactly eight
// characters in the order of DefaultOperators().String(), i.e. "><+-[].,".
func ParseOperators(s string) (OperatorSet, error) {
	if n := utf8.RuneCountInString(s); n != 8 {
		return OperatorSet{}, fmt.Errorf(
			"%w: expected 8 characters, got %d", ErrInvalidOperators, n)
	}

	r := []rune(s)
	ops := OperatorSet{
		PointerRight: r[0],
		PointerLeft:  r[1],
		Increase:     r[2],
		Decrease:     r[3],
		LoopStart:    r[4],
		LoopEnd:      r[5],
		Output:       r[6],
		Input:        r[7],
	}

	return ops, ops.Validate()
}

// String lists the operators in the order accepted by ParseOperators.
func (o OperatorSet) String() string {
	return string(o.runes())
}

func (o OperatorSet) runes() []rune {
	return []rune{
		o.PointerRight, o.PointerLeft,
		o.Increase, o.Decrease,
		o.LoopStart, o.LoopEnd,
		o.Output, o.Input,
	}
}

// Validate makes sure that every operator is a distinct, valid character.
func (o OperatorSet) Validate() error {
	seen := make(map[rune]bool, 8)
	for _, r := range o.runes() {
		if r == 0 || r == utf8.RuneError {
			return fmt.Errorf("%w: operator %q is not a valid character",
				ErrInvalidOperators, r)
		}

		if seen[r] {
			return fmt.Errorf("%w: operator %q is used twice",
				ErrInvalidOperators, r)
		}
		seen[r] = true
	}

	return nil
}

func (o OperatorSet) tokens() map[rune]token {
	return map[rune]token{
		o.PointerRight: tokRight,
		o.PointerLeft:  tokLeft,
		o.Increase:     tokIncrease,
		o.Decrease:     tokDecrease,
		o.LoopStart:    tokLoopStart,
		o.LoopEnd:      tokLoopEnd,
		o.Output:       tokOutput,
		o.Input:        tokInput,
	}
}

// Syntax errors reported by Parse.
var (
	ErrUnmatchedLoopEnd   = errors.New("unmatched loop end")
	ErrUnmatchedLoopStart = errors.New("unmatched loop start")
	ErrInvalidProgram     = errors.New("invalid program")
	ErrInvalidOperators   = errors.New("invalid operator set")
)
