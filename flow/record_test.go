package flow

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func makeRecord(volume, bod, nitrate float64) Record {
	r := Empty()
	r.Volume = volume
	r.Pollutants[BOD] = bod
	r.Pollutants[Nitrate] = nitrate
	return r
}

var _ = Describe("Record", func() {
	It("should start empty", func() {
		r := Empty()

		Expect(r.Volume).To(BeZero())
		for p := Pollutant(0); p < NumPollutants; p++ {
			Expect(r.Pollutants[p]).To(BeZero())
		}
		Expect(r.Temperature).To(BeZero())
	})

	It("should add volume and additive constituents", func() {
		a := makeRecord(10, 2, 4)
		a.Temperature = 15
		b := makeRecord(5, 1, 1)
		b.Temperature = 99

		sum := a.Add(b)

		Expect(sum.Volume).To(Equal(15.0))
		Expect(sum.Pollutants[BOD]).To(Equal(3.0))
		Expect(sum.Pollutants[Nitrate]).To(Equal(5.0))
		Expect(sum.Temperature).To(Equal(15.0))
	})

	It("should not mutate operands", func() {
		a := makeRecord(10, 2, 4)
		b := makeRecord(5, 1, 1)

		_ = a.Add(b)
		_ = a.Extract(b)
		_ = a.ScaleToVolume(3)

		Expect(a.Volume).To(Equal(10.0))
		Expect(a.Pollutants[BOD]).To(Equal(2.0))
	})

	It("should blend as volume-weighted average", func() {
		a := makeRecord(10, 2, 0)
		a.Temperature = 10
		b := makeRecord(30, 6, 0)
		b.Temperature = 20

		c := a.Blend(b)

		Expect(c.Volume).To(Equal(40.0))
		Expect(c.Pollutants[BOD]).To(BeNumerically("~", 5.0, 1e-12))
		Expect(c.Temperature).To(BeNumerically("~", 17.5, 1e-12))
	})

	It("should blend zero combined volume to zero concentrations", func() {
		a := makeRecord(0, 3, 0)
		b := makeRecord(0, 5, 0)

		c := a.Blend(b)

		Expect(c.Volume).To(BeZero())
		Expect(c.Pollutants[BOD]).To(BeZero())
	})

	It("should extract", func() {
		a := makeRecord(10, 4, 6)
		b := makeRecord(4, 1, 2)

		diff := a.Extract(b)

		Expect(diff.Volume).To(Equal(6.0))
		Expect(diff.Pollutants[BOD]).To(Equal(3.0))
		Expect(diff.Pollutants[Nitrate]).To(Equal(4.0))
	})

	It("should scale proportionally to a new volume", func() {
		a := makeRecord(10, 4, 6)

		scaled := a.ScaleToVolume(5)

		Expect(scaled.Volume).To(Equal(5.0))
		Expect(scaled.Pollutants[BOD]).To(Equal(2.0))
		Expect(scaled.Pollutants[Nitrate]).To(Equal(3.0))
	})

	It("should assign volume directly when scaling a zero-volume record", func() {
		a := Empty()

		scaled := a.ScaleToVolume(5)

		Expect(scaled.Volume).To(Equal(5.0))
		Expect(scaled.Pollutants[BOD]).To(BeZero())
	})

	It("should round-trip concentrations and totals", func() {
		c := makeRecord(8, 0.25, 0.5)

		roundTripped := c.ConcentrationToTotal().TotalToConcentration()

		Expect(roundTripped.Volume).To(Equal(8.0))
		Expect(roundTripped.Pollutants[BOD]).To(BeNumerically("~", 0.25, 1e-12))
		Expect(roundTripped.Pollutants[Nitrate]).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("should zero concentrations when converting a zero-volume record", func() {
		t := makeRecord(0, 3, 0)

		c := t.TotalToConcentration()

		Expect(c.Pollutants[BOD]).To(BeZero())
	})

	It("should distill volume and report shortfalls", func() {
		a := makeRecord(10, 4, 0)

		distilled, shortfall := a.Distill(4)
		Expect(distilled.Volume).To(Equal(6.0))
		Expect(distilled.Pollutants[BOD]).To(Equal(4.0))
		Expect(shortfall).To(BeZero())

		distilled, shortfall = a.Distill(12)
		Expect(distilled.Volume).To(BeZero())
		Expect(shortfall).To(Equal(2.0))
	})

	It("should report deltas for storage change", func() {
		now := makeRecord(10, 4, 0)
		before := makeRecord(7, 1, 0)

		ds := now.Delta(before)

		Expect(ds.Volume).To(Equal(3.0))
		Expect(ds.Pollutants[BOD]).To(Equal(3.0))
	})

	It("should clip negative residues", func() {
		a := makeRecord(10, 4, 0)
		b := makeRecord(10.000000001, 5, 0)

		clipped := a.Extract(b).Clipped()

		Expect(clipped.Volume).To(BeZero())
		Expect(clipped.Pollutants[BOD]).To(BeZero())
	})

	It("should treat volumes below the noise floor as negligible", func() {
		a := makeRecord(FloatAccuracy/2, 0, 0)
		b := makeRecord(FloatAccuracy*2, 0, 0)

		Expect(a.IsNegligible()).To(BeTrue())
		Expect(b.IsNegligible()).To(BeFalse())
	})
})
