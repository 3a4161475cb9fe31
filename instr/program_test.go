package instr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bfi/instr"
)

var _ = Describe("Program", func() {
	var p *instr.Program

	BeforeEach(func() {
		p = instr.NewProgram()
	})

	It("should start with an empty root", func() {
		Expect(p.Empty()).To(BeTrue())
		Expect(p.Len()).To(Equal(0))
		Expect(p.Node(instr.Root).Next).To(Equal(instr.Nil))
		Expect(p.Node(instr.Root).Match).To(Equal(instr.Nil))
	})

	It("should link appended nodes both ways", func() {
		p.Node(instr.Root).Opcode = instr.OpOutput
		a := p.Append(instr.Root)
		p.Node(a).Opcode = instr.OpInput
		b := p.Append(a)
		p.Node(b).Opcode = instr.OpClear

		Expect(p.Opcodes()).To(Equal([]instr.Opcode{
			instr.OpOutput, instr.OpInput, instr.OpClear,
		}))
		Expect(p.Node(b).Prev).To(Equal(a))
		Expect(p.Node(a).Prev).To(Equal(instr.Root))
	})

	It("should insert in the middle of the list", func() {
		p.Node(instr.Root).Opcode = instr.OpOutput
		b := p.Append(instr.Root)
		p.Node(b).Opcode = instr.OpClear
		a := p.Append(instr.Root)
		p.Node(a).Opcode = instr.OpInput

		Expect(p.Opcodes()).To(Equal([]instr.Opcode{
			instr.OpOutput, instr.OpInput, instr.OpClear,
		}))
		Expect(p.Node(b).Prev).To(Equal(a))
	})

	It("should detach and retire a node", func() {
		p.Node(instr.Root).Opcode = instr.OpOutput
		a := p.Append(instr.Root)
		p.Node(a).Opcode = instr.OpInput
		b := p.Append(a)
		p.Node(b).Opcode = instr.OpClear

		p.Detach(a)

		Expect(p.Retired(a)).To(BeTrue())
		Expect(p.Len()).To(Equal(2))
		Expect(p.Node(instr.Root).Next).To(Equal(b))
		Expect(p.Node(b).Prev).To(Equal(instr.Root))
		Expect(p.Cap()).To(Equal(3))
	})

	It("should refuse to detach the root", func() {
		Expect(func() { p.Detach(instr.Root) }).To(Panic())
	})

	It("should truncate the tail", func() {
		p.Node(instr.Root).Opcode = instr.OpOutput
		a := p.Append(instr.Root)
		p.Node(a).Opcode = instr.OpInput
		b := p.Append(a)
		p.Node(b).Opcode = instr.OpClear

		p.TruncateAfter(instr.Root)

		Expect(p.Len()).To(Equal(1))
		Expect(p.Retired(a)).To(BeTrue())
		Expect(p.Retired(b)).To(BeTrue())
		Expect(p.Retired(instr.Root)).To(BeFalse())
	})

	It("should count opcodes", func() {
		p.Node(instr.Root).Opcode = instr.OpOutput
		a := p.Append(instr.Root)
		p.Node(a).Opcode = instr.OpOutput

		Expect(p.Count(instr.OpOutput)).To(Equal(2))
		Expect(p.Count(instr.OpInput)).To(Equal(0))
	})
})

var _ = Describe("Instruction", func() {
	It("should print deltas", func() {
		inst := &instr.Instruction{Opcode: instr.OpAdd, Delta: -3}
		Expect(inst.String()).To(Equal("add -3"))
		Expect(inst.IsZeroDelta()).To(BeFalse())
	})

	It("should print copy terms in offset order", func() {
		inst := &instr.Instruction{
			Opcode: instr.OpCopy,
			Copies: instr.CopyTerms(map[int64]int64{2: 3, -1: 1, 5: 0}),
		}
		Expect(inst.String()).To(Equal("copy {-1:1 2:3}"))
		Expect(instr.CopyMap(inst.Copies)).To(Equal(map[int64]int64{-1: 1, 2: 3}))
	})

	It("should print plain opcodes", func() {
		Expect((&instr.Instruction{Opcode: instr.OpScanRight}).String()).
			To(Equal("scanright"))
		Expect(instr.Opcode(200).String()).To(Equal("opcode(200)"))
	})

	It("should detect zero deltas", func() {
		Expect((&instr.Instruction{Opcode: instr.OpMove}).IsZeroDelta()).To(BeTrue())
		Expect((&instr.Instruction{Opcode: instr.OpClear}).IsZeroDelta()).To(BeFalse())
	})
})
