package core

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tape", func() {
	It("should keep small tapes in a slice", func() {
		t := NewTape(1 << maxDenseBits)
		Expect(t).To(BeAssignableToTypeOf(denseTape{}))
		Expect(t.Len()).To(Equal(uint64(1 << maxDenseBits)))
	})

	It("should page large tapes", func() {
		t := NewTape(1 << 40)
		Expect(t).To(BeAssignableToTypeOf(&sparseTape{}))
		Expect(t.Len()).To(Equal(uint64(1 << 40)))
	})

	It("should store full 64-bit values in sparse cells", func() {
		t := newSparseTape(1 << 24)

		t.Set(0, 1)
		t.Set(1<<24-1, 1<<60-1)
		t.Set(12345, 42)

		Expect(t.Get(0)).To(Equal(uint64(1)))
		Expect(t.Get(1)).To(BeZero())
		Expect(t.Get(1<<24 - 1)).To(Equal(uint64(1<<60 - 1)))
		Expect(t.Get(12345)).To(Equal(uint64(42)))
	})
})

var _ = Describe("wrapAdd", func() {
	It("should subtract by magnitude", func() {
		Expect(wrapAdd(0, -1, 255)).To(Equal(uint64(255)))
		Expect(wrapAdd(3, -259, 255)).To(Equal(uint64(0)))
		Expect(wrapAdd(250, 10, 255)).To(Equal(uint64(4)))
	})

	It("should handle the smallest int64", func() {
		Expect(magnitude(-1 << 63)).To(Equal(uint64(1 << 63)))
		Expect(wrapAdd(5, -1<<63, 1<<60-1)).To(Equal(uint64(5)))
	})
})
