// Package instr defines the intermediate representation produced by the
// parser and consumed by the interpreter.
package instr

import (
	"fmt"
	"strings"
)

// Opcode represents the operation code for an instruction.
type Opcode uint8

const (
	// OpNone marks a node that has not been initialized yet. Only the root of
	// a program that is still being parsed may carry it.
	OpNone Opcode = iota
	// OpMove moves the tape pointer by a signed amount.
	OpMove
	// OpAdd adds a signed amount to the current cell.
	OpAdd
	// OpLoopStart jumps past the matching OpLoopEnd if the cell is zero.
	OpLoopStart
	// OpLoopEnd jumps back into the loop body if the cell is not zero.
	OpLoopEnd
	// OpInput reads one byte into the current cell.
	OpInput
	// OpOutput writes the current cell as one byte.
	OpOutput
	// OpClear sets the current cell to zero.
	OpClear
	// OpCopy adds multiples of the current cell to other cells, then clears it.
	OpCopy
	// OpScanLeft moves left until it finds a zero cell.
	OpScanLeft
	// OpScanRight moves right until it finds a zero cell.
	OpScanRight
)

var opcodeNames = map[Opcode]string{
	OpNone:      "none",
	OpMove:      "move",
	OpAdd:       "add",
	OpLoopStart: "loopstart",
	OpLoopEnd:   "loopend",
	OpInput:     "input",
	OpOutput:    "output",
	OpClear:     "clear",
	OpCopy:      "copy",
	OpScanLeft:  "scanleft",
	OpScanRight: "scanright",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}

	return fmt.Sprintf("opcode(%d)", uint8(o))
}

// HasDelta returns true for the opcodes that carry a signed amount.
func (o Opcode) HasDelta() bool {
	return o == OpMove || o == OpAdd
}

// Index addresses a node in a Program arena.
type Index int

// Nil is the index used for absent links.
const Nil Index = -1

// Instruction is one node of the instruction graph.
type Instruction struct {
	Opcode Opcode

	// Delta is the amount for OpMove and OpAdd.
	Delta int64

	// Copies holds the offset/multiplier pairs of an OpCopy, sorted by offset.
	Copies []CopyTerm

	Next Index
	Prev Index

	// Match pairs an OpLoopStart with its OpLoopEnd and the other way round.
	Match Index
}

// IsZeroDelta returns true if the instruction is a move or an add that does
// nothing.
func (i *Instruction) IsZeroDelta() bool {
	return i.Opcode.HasDelta() && i.Delta == 0
}

func (i *Instruction) String() string {
	switch {
	case i.Opcode.HasDelta():
		return fmt.Sprintf("%s %d", i.Opcode, i.Delta)
	case i.Opcode == OpCopy:
		terms := make([]string, 0, len(i.Copies))
		for _, t := range i.Copies {
			terms = append(terms, t.String())
		}

		return fmt.Sprintf("%s {%s}", i.Opcode, strings.Join(terms, " "))
	default:
		return i.Opcode.String()
	}
}
