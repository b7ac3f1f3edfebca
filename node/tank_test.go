package node

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/barneydobson/wsi/flow"
)

var _ = Describe("Tank", func() {
	var t *Tank

	BeforeEach(func() {
		t = NewTank(10, makeRecord(4, 2, 0))
	})

	It("should accept a push within its spare capacity", func() {
		rejected := t.Push(makeRecord(5, 1, 0), false)

		Expect(rejected.IsNegligible()).To(BeTrue())
		Expect(t.Storage().Volume).To(BeNumerically("~", 9, 1e-9))
		Expect(t.Storage().Pollutants[flow.BOD]).
			To(BeNumerically("~", 3, 1e-9))
	})

	It("should reject the part of a push above its capacity", func() {
		rejected := t.Push(makeRecord(8, 4, 0), false)

		Expect(rejected.Volume).To(BeNumerically("~", 2, 1e-9))
		Expect(rejected.Pollutants[flow.BOD]).
			To(BeNumerically("~", 1, 1e-9))
		Expect(t.Storage().Volume).To(BeNumerically("~", 10, 1e-9))
	})

	It("should pool above capacity when forced", func() {
		rejected := t.Push(makeRecord(8, 4, 0), true)

		Expect(rejected.IsNegligible()).To(BeTrue())
		Expect(t.Storage().Volume).To(BeNumerically("~", 12, 1e-9))
	})

	It("should pull with quality ratios preserved", func() {
		pulled := t.Pull(makeRecord(2, 0, 0))

		Expect(pulled.Volume).To(BeNumerically("~", 2, 1e-9))
		Expect(pulled.Pollutants[flow.BOD]).To(BeNumerically("~", 1, 1e-9))
		Expect(t.Storage().Volume).To(BeNumerically("~", 2, 1e-9))
	})

	It("should not pull more than it holds", func() {
		pulled := t.Pull(makeRecord(100, 0, 0))

		Expect(pulled.Volume).To(BeNumerically("~", 4, 1e-9))
		Expect(t.Storage().Volume).To(BeZero())
	})

	It("should report the whole storage for an empty avail query", func() {
		avail := t.Avail(flow.Empty())

		Expect(avail.Volume).To(BeNumerically("~", 4, 1e-9))
	})

	It("should report spare capacity for an empty excess query", func() {
		excess := t.Excess(flow.Empty())

		Expect(excess.Volume).To(BeNumerically("~", 6, 1e-9))
	})

	It("should clip excess to the queried volume", func() {
		excess := t.Excess(makeRecord(2, 0, 0))

		Expect(excess.Volume).To(BeNumerically("~", 2, 1e-9))
	})

	It("should report the storage change since the last timestep", func() {
		t.Push(makeRecord(3, 1, 0), false)

		Expect(t.Delta().Volume).To(BeNumerically("~", 3, 1e-9))

		t.EndTimestep()

		Expect(t.Delta().Volume).To(BeZero())
	})

	It("should restore its initial contents on reinit", func() {
		t.Push(makeRecord(3, 1, 0), false)
		t.Reinit()

		Expect(t.Storage().Volume).To(BeNumerically("~", 4, 1e-9))
	})
})

var _ = Describe("DecayTank", func() {
	It("should decay its contents at the end of the timestep", func() {
		decayer, err := flow.NewDecayer(
			flow.DecayModel{
				flow.BOD: {Constant: 0.5, Exponent: 1},
			},
			flow.ConstantTemperature(20),
		)
		Expect(err).To(BeNil())

		t := NewDecayTank(10, makeRecord(4, 2, 0), decayer)
		t.EndTimestep()

		Expect(t.Storage().Pollutants[flow.BOD]).
			To(BeNumerically("~", 1, 1e-9))
		Expect(t.Storage().Volume).To(BeNumerically("~", 4, 1e-9))
		Expect(decayer.TotalDecayed().Pollutants[flow.BOD]).
			To(BeNumerically("~", 1, 1e-9))
	})
})
