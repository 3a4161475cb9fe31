package program

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Accumulation bounds", func() {
	It("should allow values away from the limits", func() {
		Expect(canAccumulate(0, 1)).To(BeTrue())
		Expect(canAccumulate(0, -1)).To(BeTrue())
		Expect(canAccumulate(math.MaxInt64-2, 1)).To(BeTrue())
		Expect(canAccumulate(math.MinInt64+3, -1)).To(BeTrue())
	})

	It("should stop before reaching the limits", func() {
		Expect(canAccumulate(math.MaxInt64-1, 1)).To(BeFalse())
		Expect(canAccumulate(math.MinInt64+2, -1)).To(BeFalse())
	})

	It("should start a new node when a run cannot grow", func() {
		prog, err := ParseDefault("+")
		Expect(err).NotTo(HaveOccurred())
		prog.Node(0).Delta = math.MaxInt64 - 1

		p := &parser{prog: prog, cur: 0}
		p.addDelta(prog.Node(0).Opcode, 1)

		Expect(prog.Len()).To(Equal(2))
		Expect(prog.Node(0).Delta).To(Equal(int64(math.MaxInt64 - 1)))
		Expect(prog.Node(p.cur).Delta).To(Equal(int64(1)))
	})

	It("should detect int64 overflow on offsets", func() {
		_, ok := addInt64(math.MaxInt64, 1)
		Expect(ok).To(BeFalse())
		_, ok = addInt64(math.MinInt64, -1)
		Expect(ok).To(BeFalse())
		v, ok := addInt64(-5, 3)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int64(-2)))
	})
})
