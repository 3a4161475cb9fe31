// Package program turns program text into an optimized instruction graph.
//
// Parsing is a single pass. Runs of pointer moves and cell additions are
// merged into one instruction each, and every closed loop is matched against
// three patterns:
//
//   - a loop whose body is a single +1/-1 addition becomes OpClear,
//   - a loop whose body is a single +1/-1 pointer move becomes OpScanRight or
//     OpScanLeft,
//   - a loop that decrements its cell once and otherwise only adds to cells
//     at fixed offsets before returning to the start becomes OpCopy.
package program

import (
	"fmt"
	"math"

	"github.com/sarchlab/bfi/instr"
)

type openLoop struct {
	index instr.Index
	pos   int
}

type parser struct {
	prog  *instr.Program
	cur   instr.Index
	loops []openLoop
}

// Parse converts the given text into an instruction graph. Characters that are
// not part of the operator set are ignored.
func Parse(text string, ops OperatorSet) (*instr.Program, error) {
	if err := ops.Validate(); err != nil {
		return nil, err
	}

	tokens := ops.tokens()
	p := &parser{
		prog: instr.NewProgram(),
		cur:  instr.Root,
	}

	for pos, r := range text {
		switch tokens[r] {
		case tokRight:
			p.addDelta(instr.OpMove, 1)
		case tokLeft:
			p.addDelta(instr.OpMove, -1)
		case tokIncrease:
			p.addDelta(instr.OpAdd, 1)
		case tokDecrease:
			p.addDelta(instr.OpAdd, -1)
		case tokLoopStart:
			p.seal(instr.OpLoopStart)
			p.loops = append(p.loops, openLoop{index: p.cur, pos: pos})
		case tokLoopEnd:
			if err := p.closeLoop(pos); err != nil {
				return nil, err
			}
		case tokOutput:
			p.seal(instr.OpOutput)
		case tokInput:
			p.seal(instr.OpInput)
		}
	}

	return p.finish()
}

// ParseDefault parses the text with the classic operator characters.
func ParseDefault(text string) (*instr.Program, error) {
	return Parse(text, DefaultOperators())
}

func (p *parser) node(i instr.Index) *instr.Instruction {
	return p.prog.Node(i)
}

// seal starts a new instruction with the given opcode. An uninitialized or
// no-op cursor is reused instead of being followed by a new node.
func (p *parser) seal(op instr.Opcode) {
	n := p.node(p.cur)
	if n.Opcode != instr.OpNone && !n.IsZeroDelta() {
		p.cur = p.prog.Append(p.cur)
		n = p.node(p.cur)
	}

	n.Opcode = op
	n.Delta = 0
	n.Copies = nil
	n.Match = instr.Nil
}

func (p *parser) addDelta(op instr.Opcode, d int64) {
	p.revertNoop()

	n := p.node(p.cur)
	if n.Opcode == op && canAccumulate(n.Delta, d) {
		n.Delta += d
		return
	}

	p.seal(op)
	p.node(p.cur).Delta = d
}

// revertNoop drops a zero move that follows an add, or a zero add that follows
// a move, so that the instructions on both sides can merge again.
func (p *parser) revertNoop() {
	n := p.node(p.cur)
	if !n.IsZeroDelta() || n.Prev == instr.Nil {
		return
	}

	prev := p.node(n.Prev).Opcode
	if (n.Opcode == instr.OpMove && prev == instr.OpAdd) ||
		(n.Opcode == instr.OpAdd && prev == instr.OpMove) {
		back := n.Prev
		p.prog.Detach(p.cur)
		p.cur = back
	}
}

// canAccumulate checks, before adding, that v+d stays strictly between
// math.MinInt64+1 and math.MaxInt64.
func canAccumulate(v, d int64) bool {
	if d > 0 {
		return v < math.MaxInt64-d
	}

	return v > math.MinInt64+1-d
}

func (p *parser) closeLoop(pos int) error {
	if len(p.loops) == 0 {
		return fmt.Errorf("%w at offset %d", ErrUnmatchedLoopEnd, pos)
	}

	open := p.loops[len(p.loops)-1]
	p.loops = p.loops[:len(p.loops)-1]

	p.seal(instr.OpLoopEnd)
	end := p.cur
	p.node(end).Match = open.index
	p.node(open.index).Match = end

	if p.rewriteSingleBody(open.index, end) {
		return nil
	}

	p.rewriteCopy(open.index, end)

	return nil
}

func (p *parser) finish() (*instr.Program, error) {
	if len(p.loops) > 0 {
		open := p.loops[len(p.loops)-1]
		return nil, fmt.Errorf("%w at offset %d", ErrUnmatchedLoopStart, open.pos)
	}

	if p.prog.Empty() {
		return nil, fmt.Errorf("%w: no operators found", ErrInvalidProgram)
	}

	n := p.node(p.cur)
	if n.IsZeroDelta() {
		if n.Prev == instr.Nil {
			return nil, fmt.Errorf("%w: program has no effect", ErrInvalidProgram)
		}

		p.prog.Detach(p.cur)
	}

	return p.prog, nil
}
