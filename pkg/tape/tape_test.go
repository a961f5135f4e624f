package tape_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tapewalk/tapewalk/pkg/tape"
)

var _ = Describe("Tape", func() {
	var t *tape.Tape

	BeforeEach(func() {
		t = tape.New(tape.DefaultSize)
	})

	It("should start zeroed with the pointer at 0", func() {
		Expect(t.Len()).To(Equal(1024))
		Expect(t.Pointer()).To(Equal(0))
		for _, c := range t.Cells() {
			Expect(c).To(BeZero())
		}
	})

	It("should raise sizes below 1 to a single cell", func() {
		small := tape.New(0)
		Expect(small.Len()).To(Equal(1))
		small.Right()
		Expect(small.Len()).To(Equal(2))
		Expect(small.Pointer()).To(Equal(1))
	})

	Context("cell values", func() {
		It("should read back what was written", func() {
			t.Set(42)
			Expect(t.Get()).To(Equal(tape.Cell(42)))
		})

		It("should go negative without clamping", func() {
			t.Add(-1)
			Expect(t.Get()).To(Equal(tape.Cell(-1)))
			t.Add(-300)
			Expect(t.Get()).To(Equal(tape.Cell(-301)))
		})

		It("should wrap at the 32-bit boundaries", func() {
			t.Set(math.MaxInt32)
			t.Add(1)
			Expect(t.Get()).To(Equal(tape.Cell(math.MinInt32)))
			t.Add(-1)
			Expect(t.Get()).To(Equal(tape.Cell(math.MaxInt32)))
		})
	})

	Context("moving right", func() {
		It("should not grow inside the initial length", func() {
			for i := 0; i < 1023; i++ {
				t.Right()
			}
			Expect(t.Pointer()).To(Equal(1023))
			Expect(t.Len()).To(Equal(1024))
		})

		It("should grow by exactly one cell per move past the edge", func() {
			for i := 0; i < 1023; i++ {
				t.Right()
			}
			for n := 1; n <= 10; n++ {
				t.Right()
				Expect(t.Len()).To(Equal(1024 + n))
				Expect(t.Pointer()).To(Equal(1023 + n))
				Expect(t.Get()).To(BeZero())
			}
		})
	})

	Context("moving left", func() {
		It("should wrap from 0 to the last cell without growing", func() {
			t.Left()
			Expect(t.Pointer()).To(Equal(1023))
			Expect(t.Len()).To(Equal(1024))
		})

		It("should wrap to the current last cell after growth", func() {
			small := tape.New(2)
			small.Right()
			small.Right()
			small.Right()
			Expect(small.Len()).To(Equal(4))
			for i := 0; i < 3; i++ {
				small.Left()
			}
			Expect(small.Pointer()).To(Equal(0))
			small.Left()
			Expect(small.Pointer()).To(Equal(3))
		})

		It("should grow on left-then-right since the wrap lands on the last cell", func() {
			t.Left()
			t.Right()
			Expect(t.Len()).To(Equal(1025))
			Expect(t.Pointer()).To(Equal(1024))
			Expect(t.Pointer()).To(Equal(t.Len() - 1))
			Expect(t.Get()).To(BeZero())
		})
	})

	It("should keep visited values across wraparound and return", func() {
		small := tape.New(3)
		small.Set(7)
		small.Right()
		small.Set(8)
		small.Right()
		small.Set(9)
		small.Right() // grows to 4
		small.Set(10)

		small.Left()
		small.Left()
		small.Left()
		Expect(small.Get()).To(Equal(tape.Cell(7)))
		small.Left() // wrap to index 3
		Expect(small.Get()).To(Equal(tape.Cell(10)))
		small.Right() // index 3 is the last cell, so this grows
		Expect(small.Len()).To(Equal(5))
		Expect(small.Cells()).To(Equal([]tape.Cell{7, 8, 9, 10, 0}))
	})

	It("should return a copy from Cells", func() {
		cells := t.Cells()
		cells[0] = 99
		Expect(t.Get()).To(BeZero())
	})

	It("should render the window around the pointer", func() {
		t.Right()
		t.Set(-3)
		out := t.Render(1)
		Expect(out).To(ContainSubstring("len=1024"))
		Expect(out).To(ContainSubstring("ptr=1"))
		Expect(out).To(ContainSubstring("*1"))
		Expect(out).To(ContainSubstring("-3"))
		Expect(out).NotTo(ContainSubstring("*0"))
	})
})
