package instr

import "fmt"

// Root is the index of the first instruction of every program.
const Root Index = 0

// Program is an arena of instructions. Nodes refer to each other by index,
// and a node that is removed from the graph is retired rather than freed, so
// that every index stays either live or explicitly retired.
type Program struct {
	nodes   []Instruction
	retired []bool
}

// NewProgram creates a program that holds a single, uninitialized root node.
func NewProgram() *Program {
	p := &Program{}
	p.alloc()

	return p
}

func (p *Program) alloc() Index {
	p.nodes = append(p.nodes, Instruction{Next: Nil, Prev: Nil, Match: Nil})
	p.retired = append(p.retired, false)

	return Index(len(p.nodes) - 1)
}

// Node returns the instruction at the given index.
func (p *Program) Node(i Index) *Instruction {
	if i < 0 || int(i) >= len(p.nodes) {
		panic(fmt.Sprintf("instruction index %d out of range [0, %d)", i, len(p.nodes)))
	}

	return &p.nodes[i]
}

// Cap returns the number of nodes in the arena, including retired ones.
func (p *Program) Cap() int {
	return len(p.nodes)
}

// Retired tells if the node at the given index has been removed from the
// graph.
func (p *Program) Retired(i Index) bool {
	return p.retired[i]
}

// Empty returns true if the root has never been initialized.
func (p *Program) Empty() bool {
	return p.nodes[Root].Opcode == OpNone
}

// Append creates a new node right after the given one and returns its index.
func (p *Program) Append(after Index) Index {
	n := p.alloc()
	prev := p.Node(after)

	p.nodes[n].Prev = after
	p.nodes[n].Next = prev.Next
	if prev.Next != Nil {
		p.nodes[prev.Next].Prev = n
	}
	prev.Next = n

	return n
}

// Retire marks a node as removed and clears its links. Its neighbors are not
// relinked; use Detach for that.
func (p *Program) Retire(i Index) {
	p.nodes[i] = Instruction{Next: Nil, Prev: Nil, Match: Nil}
	p.retired[i] = true
}

// Detach unlinks a node from its neighbors and retires it. The root cannot be
// detached.
func (p *Program) Detach(i Index) {
	if i == Root {
		panic("cannot detach the root instruction")
	}

	n := p.Node(i)
	if n.Prev != Nil {
		p.nodes[n.Prev].Next = n.Next
	}
	if n.Next != Nil {
		p.nodes[n.Next].Prev = n.Prev
	}

	p.Retire(i)
}

// TruncateAfter retires every node that follows the given one.
func (p *Program) TruncateAfter(i Index) {
	n := p.Node(i)
	for next := n.Next; next != Nil; {
		following := p.nodes[next].Next
		p.Retire(next)
		next = following
	}
	n.Next = Nil
}

// Walk visits the live instructions in program order until fn returns false.
func (p *Program) Walk(fn func(i Index, inst *Instruction) bool) {
	if p.Empty() {
		return
	}

	for i := Root; i != Nil; i = p.nodes[i].Next {
		if !fn(i, &p.nodes[i]) {
			return
		}
	}
}

// Len returns the number of live instructions.
func (p *Program) Len() int {
	count := 0
	p.Walk(func(Index, *Instruction) bool {
		count++
		return true
	})

	return count
}

// Count returns how many live instructions carry the given opcode.
func (p *Program) Count(op Opcode) int {
	count := 0
	p.Walk(func(_ Index, inst *Instruction) bool {
		if inst.Opcode == op {
			count++
		}
		return true
	})

	return count
}

// Opcodes lists the opcodes of the live instructions in program order.
func (p *Program) Opcodes() []Opcode {
	ops := make([]Opcode, 0, len(p.nodes))
	p.Walk(func(_ Index, inst *Instruction) bool {
		ops = append(ops, inst.Opcode)
		return true
	})

	return ops
}
