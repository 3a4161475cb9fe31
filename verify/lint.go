package verify

import (
	"fmt"

	"github.com/sarchlab/bfi/instr"
)

// RunLint performs static checks on a parsed program. It returns a list of
// issues found, or an empty list if the program is well formed.
func RunLint(prog *instr.Program) []Issue {
	var issues []Issue

	if prog.Empty() {
		return append(issues, Issue{
			Type:    IssueStruct,
			Index:   instr.Root,
			Message: "program has no instructions",
		})
	}

	live, cycle := collectLive(prog)
	if cycle != instr.Nil {
		// The remaining checks walk the list and would not terminate.
		return append(issues, Issue{
			Type:    IssueStruct,
			Index:   cycle,
			Opcode:  prog.Node(cycle).Opcode,
			Message: fmt.Sprintf("next links of node %d form a cycle or leave the program", cycle),
			Details: map[string]interface{}{"next": prog.Node(cycle).Next},
		})
	}

	issues = append(issues, lintArena(prog, live)...)
	issues = append(issues, lintLinks(prog)...)
	issues = append(issues, lintLoops(prog)...)
	issues = append(issues, lintCopies(prog)...)

	return issues
}

// collectLive follows the next links from the root. It returns the last
// node it visited when the links loop back or point outside the arena.
func collectLive(prog *instr.Program) (map[instr.Index]bool, instr.Index) {
	live := make(map[instr.Index]bool)

	for i := instr.Root; i != instr.Nil; i = prog.Node(i).Next {
		if live[i] {
			return live, i
		}
		live[i] = true

		if next := prog.Node(i).Next; next < instr.Nil || int(next) >= prog.Cap() {
			return live, i
		}
	}

	return live, instr.Nil
}

// ARENA: every index is live or retired, never both or neither.
func lintArena(prog *instr.Program, live map[instr.Index]bool) []Issue {
	var issues []Issue

	for n := 0; n < prog.Cap(); n++ {
		i := instr.Index(n)
		retired := prog.Retired(i)

		switch {
		case live[i] && retired:
			issues = append(issues, Issue{
				Type:    IssueArena,
				Index:   i,
				Opcode:  prog.Node(i).Opcode,
				Message: fmt.Sprintf("node %d is reachable but retired", i),
			})
		case !live[i] && !retired:
			issues = append(issues, Issue{
				Type:    IssueArena,
				Index:   i,
				Opcode:  prog.Node(i).Opcode,
				Message: fmt.Sprintf("node %d is neither reachable nor retired", i),
			})
		}
	}

	return issues
}

// STRUCT: links agree in both directions and every node does something.
func lintLinks(prog *instr.Program) []Issue {
	var issues []Issue

	if prev := prog.Node(instr.Root).Prev; prev != instr.Nil {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Index:   instr.Root,
			Message: fmt.Sprintf("root has a previous node %d", prev),
		})
	}

	prog.Walk(func(i instr.Index, inst *instr.Instruction) bool {
		if inst.Next != instr.Nil && prog.Node(inst.Next).Prev != i {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Index:   i,
				Opcode:  inst.Opcode,
				Message: fmt.Sprintf("next node %d does not link back to %d", inst.Next, i),
				Details: map[string]interface{}{
					"next":     inst.Next,
					"nextPrev": prog.Node(inst.Next).Prev,
				},
			})
		}

		switch {
		case inst.Opcode == instr.OpNone:
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Index:   i,
				Opcode:  inst.Opcode,
				Message: fmt.Sprintf("node %d has no opcode", i),
			})
		case inst.IsZeroDelta():
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Index:   i,
				Opcode:  inst.Opcode,
				Message: fmt.Sprintf("node %d is a %s of zero", i, inst.Opcode),
			})
		case !inst.Opcode.HasDelta() && inst.Delta != 0:
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Index:   i,
				Opcode:  inst.Opcode,
				Message: fmt.Sprintf("node %d carries an amount it does not use", i),
			})
		}

		return true
	})

	return issues
}

// LOOP: starts and ends match each other and nest like brackets.
func lintLoops(prog *instr.Program) []Issue {
	var (
		issues []Issue
		open   []instr.Index
	)

	prog.Walk(func(i instr.Index, inst *instr.Instruction) bool {
		switch inst.Opcode {
		case instr.OpLoopStart:
			open = append(open, i)
			issues = append(issues, checkMatch(prog, i, inst, instr.OpLoopEnd)...)
		case instr.OpLoopEnd:
			if len(open) == 0 {
				issues = append(issues, Issue{
					Type:    IssueLoop,
					Index:   i,
					Opcode:  inst.Opcode,
					Message: fmt.Sprintf("loop end %d has no open loop", i),
				})
				return true
			}

			start := open[len(open)-1]
			open = open[:len(open)-1]
			if inst.Match != start {
				issues = append(issues, Issue{
					Type:    IssueLoop,
					Index:   i,
					Opcode:  inst.Opcode,
					Message: fmt.Sprintf("loop end %d closes %d instead of %d", i, inst.Match, start),
				})
			}
			issues = append(issues, checkMatch(prog, i, inst, instr.OpLoopStart)...)
		default:
			if inst.Match != instr.Nil {
				issues = append(issues, Issue{
					Type:    IssueLoop,
					Index:   i,
					Opcode:  inst.Opcode,
					Message: fmt.Sprintf("%s node %d is paired with %d", inst.Opcode, i, inst.Match),
				})
			}
		}

		return true
	})

	for _, start := range open {
		issues = append(issues, Issue{
			Type:    IssueLoop,
			Index:   start,
			Opcode:  instr.OpLoopStart,
			Message: fmt.Sprintf("loop start %d is never closed", start),
		})
	}

	return issues
}

func checkMatch(
	prog *instr.Program,
	i instr.Index,
	inst *instr.Instruction,
	want instr.Opcode,
) []Issue {
	if inst.Match < 0 || int(inst.Match) >= prog.Cap() {
		return []Issue{{
			Type:    IssueLoop,
			Index:   i,
			Opcode:  inst.Opcode,
			Message: fmt.Sprintf("%s %d has no partner", inst.Opcode, i),
		}}
	}

	partner := prog.Node(inst.Match)
	if partner.Opcode != want || partner.Match != i {
		return []Issue{{
			Type:    IssueLoop,
			Index:   i,
			Opcode:  inst.Opcode,
			Message: fmt.Sprintf("%s %d and its partner %d do not point at each other", inst.Opcode, i, inst.Match),
			Details: map[string]interface{}{
				"partnerOpcode": partner.Opcode.String(),
				"partnerMatch":  partner.Match,
			},
		}}
	}

	return nil
}

// COPY: terms are sorted by offset, never target the loop's own cell, and
// never multiply by zero.
func lintCopies(prog *instr.Program) []Issue {
	var issues []Issue

	prog.Walk(func(i instr.Index, inst *instr.Instruction) bool {
		if inst.Opcode != instr.OpCopy {
			if len(inst.Copies) > 0 {
				issues = append(issues, Issue{
					Type:    IssueCopy,
					Index:   i,
					Opcode:  inst.Opcode,
					Message: fmt.Sprintf("%s node %d carries copy terms", inst.Opcode, i),
				})
			}
			return true
		}

		if len(inst.Copies) == 0 {
			issues = append(issues, Issue{
				Type:    IssueCopy,
				Index:   i,
				Opcode:  inst.Opcode,
				Message: fmt.Sprintf("copy %d has no targets", i),
			})
		}

		for n, t := range inst.Copies {
			var problem string
			switch {
			case t.Offset == 0:
				problem = "targets its own cell"
			case t.Multiplier == 0:
				problem = "has a zero multiplier"
			case n > 0 && inst.Copies[n-1].Offset >= t.Offset:
				problem = "is out of order"
			}

			if problem != "" {
				issues = append(issues, Issue{
					Type:    IssueCopy,
					Index:   i,
					Opcode:  inst.Opcode,
					Message: fmt.Sprintf("copy %d term %s %s", i, t, problem),
					Details: map[string]interface{}{"term": n},
				})
			}
		}

		return true
	})

	return issues
}
