package program_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bfi/instr"
	"github.com/sarchlab/bfi/program"
)

func listing(p *instr.Program) []string {
	var out []string
	p.Walk(func(_ instr.Index, inst *instr.Instruction) bool {
		out = append(out, inst.String())
		return true
	})

	return out
}

func mustParse(text string) *instr.Program {
	p, err := program.ParseDefault(text)
	Expect(err).NotTo(HaveOccurred())

	return p
}

var _ = Describe("Parser", func() {
	Context("when merging runs", func() {
		It("should merge additions into one instruction", func() {
			p := mustParse("++++")
			Expect(listing(p)).To(Equal([]string{"add 4"}))
		})

		It("should merge mixed signs", func() {
			Expect(listing(mustParse("+++-->><<<"))).
				To(Equal([]string{"add 1", "move -1"}))
		})

		It("should never merge output and input", func() {
			Expect(listing(mustParse("..,,"))).
				To(Equal([]string{"output", "output", "input", "input"}))
		})

		It("should ignore comments", func() {
			Expect(listing(mustParse("a+b+\nc.d"))).
				To(Equal([]string{"add 2", "output"}))
		})

		It("should merge moves separated by a no-op add", func() {
			Expect(listing(mustParse(">+->."))).
				To(Equal([]string{"move 2", "output"}))
		})

		It("should merge adds separated by a no-op move", func() {
			Expect(listing(mustParse("+><+."))).
				To(Equal([]string{"add 2", "output"}))
		})

		It("should overwrite a no-op with the next instruction", func() {
			Expect(listing(mustParse("+>+-<."))).
				To(Equal([]string{"add 1", "output"}))
		})

		It("should drop a trailing no-op", func() {
			Expect(listing(mustParse("+><"))).To(Equal([]string{"add 1"}))
			Expect(listing(mustParse("+>+-"))).
				To(Equal([]string{"add 1", "move 1"}))
		})
	})

	Context("when rewriting single instruction loops", func() {
		It("should turn [-] and [+] into clear", func() {
			Expect(listing(mustParse(">[-]"))).
				To(Equal([]string{"move 1", "clear"}))
			Expect(listing(mustParse(">[+]"))).
				To(Equal([]string{"move 1", "clear"}))
		})

		It("should absorb a pending add", func() {
			Expect(listing(mustParse("+++[-]."))).
				To(Equal([]string{"clear", "output"}))
		})

		It("should turn [>] and [<] into scans", func() {
			Expect(listing(mustParse("+[>]"))).
				To(Equal([]string{"add 1", "scanright"}))
			Expect(listing(mustParse("+[<]"))).
				To(Equal([]string{"add 1", "scanleft"}))
		})

		It("should keep loops with larger steps", func() {
			Expect(listing(mustParse("+[--]"))).To(Equal([]string{
				"add 1", "loopstart", "add -2", "loopend",
			}))
			Expect(listing(mustParse("+[>>]"))).To(Equal([]string{
				"add 1", "loopstart", "move 2", "loopend",
			}))
		})

		It("should see through no-ops inside the body", func() {
			Expect(listing(mustParse("[->+-<]"))).To(Equal([]string{"clear"}))
		})

		It("should keep empty loops", func() {
			p := mustParse("+[]")
			Expect(listing(p)).To(Equal([]string{"add 1", "loopstart", "loopend"}))
		})
	})

	Context("when rewriting copy loops", func() {
		It("should detect a move loop", func() {
			Expect(listing(mustParse("[->+<]"))).To(Equal([]string{"copy {1:1}"}))
		})

		It("should detect leftward copies", func() {
			Expect(listing(mustParse(">[-<+>]"))).
				To(Equal([]string{"move 1", "copy {-1:1}"}))
		})

		It("should detect multiple targets and multipliers", func() {
			Expect(listing(mustParse("[->++>---<<]"))).
				To(Equal([]string{"copy {1:2 2:-3}"}))
		})

		It("should sum multipliers of repeated offsets", func() {
			Expect(listing(mustParse("[->+>-<+<]"))).
				To(Equal([]string{"copy {1:2 2:-1}"}))
		})

		It("should clear when every target cancels out", func() {
			Expect(listing(mustParse("[->+>+<->-<<]"))).To(Equal([]string{"clear"}))
			Expect(listing(mustParse("[->+>-<+<]."))).
				To(Equal([]string{"copy {1:2 2:-1}", "output"}))
		})

		It("should not rewrite loops that touch their own cell again", func() {
			Expect(listing(mustParse("[->+<+>]"))).To(Equal([]string{
				"loopstart", "add -1", "move 1", "add 1", "move -1", "add 1",
				"move 1", "loopend",
			}))
		})

		It("should not rewrite loops that do not return", func() {
			Expect(listing(mustParse("[->+<<]"))).To(Equal([]string{
				"loopstart", "add -1", "move 1", "add 1", "move -2", "loopend",
			}))
		})

		It("should not rewrite loops that decrement by more than one", func() {
			Expect(listing(mustParse("[-->+<]"))).To(Equal([]string{
				"loopstart", "add -2", "move 1", "add 1", "move -1", "loopend",
			}))
		})

		It("should not rewrite loops with I/O", func() {
			Expect(listing(mustParse("[->.<]"))).To(Equal([]string{
				"loopstart", "add -1", "move 1", "output", "move -1", "loopend",
			}))
		})

		It("should rewrite nested copy loops", func() {
			Expect(listing(mustParse("+[>[->+<]<-]"))).To(Equal([]string{
				"add 1", "loopstart", "move 1", "copy {1:1}", "move -1",
				"add -1", "loopend",
			}))
		})

		It("should retire everything behind the copy", func() {
			p := mustParse("[->+<]")
			Expect(p.Len()).To(Equal(1))
			Expect(p.Node(instr.Root).Next).To(Equal(instr.Nil))
			for i := 1; i < p.Cap(); i++ {
				Expect(p.Retired(instr.Index(i))).To(BeTrue())
			}
		})
	})

	Context("when pairing loops", func() {
		It("should link loop starts and ends both ways", func() {
			p := mustParse("+[>+[-]<-[>]]")

			starts := 0
			ends := 0
			p.Walk(func(i instr.Index, inst *instr.Instruction) bool {
				switch inst.Opcode {
				case instr.OpLoopStart:
					starts++
					Expect(p.Node(inst.Match).Opcode).To(Equal(instr.OpLoopEnd))
					Expect(p.Node(inst.Match).Match).To(Equal(i))
				case instr.OpLoopEnd:
					ends++
					Expect(p.Node(inst.Match).Match).To(Equal(i))
				}
				return true
			})

			Expect(starts).To(Equal(1))
			Expect(ends).To(Equal(starts))
		})
	})

	Context("when the program is malformed", func() {
		It("should report an unmatched loop end", func() {
			_, err := program.ParseDefault("]")
			Expect(err).To(MatchError(program.ErrUnmatchedLoopEnd))

			_, err = program.ParseDefault("+]")
			Expect(err).To(MatchError(ContainSubstring("offset 1")))
		})

		It("should report an unmatched loop start", func() {
			_, err := program.ParseDefault("[")
			Expect(err).To(MatchError(program.ErrUnmatchedLoopStart))

			_, err = program.ParseDefault("[[]")
			Expect(err).To(MatchError(program.ErrUnmatchedLoopStart))
		})

		It("should reject programs without operators", func() {
			_, err := program.ParseDefault("")
			Expect(err).To(MatchError(program.ErrInvalidProgram))

			_, err = program.ParseDefault("just a comment")
			Expect(err).To(MatchError(program.ErrInvalidProgram))
		})

		It("should reject programs that do nothing", func() {
			_, err := program.ParseDefault("+-")
			Expect(err).To(MatchError(program.ErrInvalidProgram))

			_, err = program.ParseDefault(">+-<")
			Expect(err).To(MatchError(program.ErrInvalidProgram))
		})
	})
})

var _ = Describe("OperatorSet", func() {
	It("should round trip the default set", func() {
		ops, err := program.ParseOperators(program.DefaultOperators().String())
		Expect(err).NotTo(HaveOccurred())
		Expect(ops).To(Equal(program.DefaultOperators()))
	})

	It("should parse with remapped operators", func() {
		_, err := program.ParseOperators("rlidSEoi")
		Expect(err).To(MatchError(program.ErrInvalidOperators))

		ops, err := program.ParseOperators("rlpmSEoI")
		Expect(err).NotTo(HaveOccurred())

		p, err := program.Parse("pp+>o", ops)
		Expect(err).NotTo(HaveOccurred())
		Expect(listing(p)).To(Equal([]string{"add 2", "output"}))
	})

	It("should accept non-ASCII operators", func() {
		ops, err := program.ParseOperators("→←↑↓«».,")
		Expect(err).NotTo(HaveOccurred())

		p, err := program.Parse("↑↑«↓»→.", ops)
		Expect(err).NotTo(HaveOccurred())
		Expect(listing(p)).To(Equal([]string{"clear", "move 1", "output"}))
	})

	It("should reject sets of the wrong length", func() {
		_, err := program.ParseOperators("><+-")
		Expect(err).To(MatchError(program.ErrInvalidOperators))
	})

	It("should refuse to parse with an invalid set", func() {
		ops := program.DefaultOperators()
		ops.Input = ops.Output

		_, err := program.Parse("+.", ops)
		Expect(err).To(MatchError(program.ErrInvalidOperators))
	})
})
