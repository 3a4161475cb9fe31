package program

import (
	"math"

	"github.com/sarchlab/bfi/instr"
)

// rewriteSingleBody replaces [-], [+], [>] and [<] loops.
func (p *parser) rewriteSingleBody(start, end instr.Index) bool {
	body := p.node(end).Prev
	if body == start || p.node(body).Prev != start {
		return false
	}

	b := p.node(body)
	switch {
	case b.Opcode == instr.OpAdd && (b.Delta == 1 || b.Delta == -1):
		// An add right before the loop is overwritten by the clear anyway.
		target := start
		if before := p.node(start).Prev; before != instr.Nil &&
			p.node(before).Opcode == instr.OpAdd {
			target = before
		}
		p.replace(target, instr.OpClear, nil)
	case b.Opcode == instr.OpMove && b.Delta == 1:
		p.replace(start, instr.OpScanRight, nil)
	case b.Opcode == instr.OpMove && b.Delta == -1:
		p.replace(start, instr.OpScanLeft, nil)
	default:
		return false
	}

	return true
}

// rewriteCopy replaces loops shaped like [->+<] or [->++>-<<], that is a
// single decrement followed by (move, add) pairs and a final move back to the
// loop's cell.
func (p *parser) rewriteCopy(start, end instr.Index) {
	first := p.node(p.node(start).Next)
	if first.Opcode != instr.OpAdd || first.Delta != -1 {
		return
	}

	offset := int64(0)
	terms := make(map[int64]int64)

	for i := first.Next; i != instr.Nil && i != end; {
		n := p.node(i)
		if n.Opcode != instr.OpMove {
			return
		}

		if n.Next != instr.Nil && p.node(n.Next).Opcode == instr.OpAdd {
			next, ok := addInt64(offset, n.Delta)
			if !ok || next == 0 {
				// Touching the loop's own cell again changes the trip count.
				return
			}
			offset = next

			add := p.node(n.Next)
			mul, ok := addInt64(terms[offset], add.Delta)
			if !ok {
				return
			}
			terms[offset] = mul

			i = add.Next
			continue
		}

		if len(terms) == 0 || n.Delta != -offset || n.Next != end {
			return
		}

		// Targets whose additions cancel out are dropped, and a loop that
		// only decrements its own cell is a clear.
		copies := instr.CopyTerms(terms)
		if len(copies) == 0 {
			p.replace(start, instr.OpClear, nil)
		} else {
			p.replace(start, instr.OpCopy, copies)
		}

		return
	}
}

// replace turns the target into a single instruction that stands for
// everything from the target up to the end of the program.
func (p *parser) replace(target instr.Index, op instr.Opcode, copies []instr.CopyTerm) {
	p.prog.TruncateAfter(target)

	n := p.node(target)
	n.Opcode = op
	n.Delta = 0
	n.Copies = copies
	n.Match = instr.Nil

	p.cur = target
}

func addInt64(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}

	return a + b, true
}
