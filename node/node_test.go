package node

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/barneydobson/wsi/arc"
	"github.com/barneydobson/wsi/flow"
)

var _ = Describe("Node", func() {
	var n *Node

	BeforeEach(func() {
		n = New("Junction")
	})

	It("should deny checks and reject pushes by default", func() {
		r := makeRecord(5, 2, 1)

		Expect(n.PushCheck(r, flow.TagDefault)).To(Equal(flow.Empty()))
		Expect(n.PushSet(r, flow.TagDefault)).To(Equal(r))
		Expect(n.PullCheck(r, flow.TagDefault)).To(Equal(flow.Empty()))
		Expect(n.PullSet(r, flow.TagDefault)).To(Equal(flow.Empty()))
	})

	It("should dispatch to the handler registered for the tag", func() {
		n.HandlePullCheck("Sewage", func(r flow.Record) flow.Record {
			return r.ScaleToVolume(1)
		})

		r := makeRecord(5, 2, 1)

		Expect(n.PullCheck(r, "Sewage").Volume).
			To(BeNumerically("~", 1, 1e-9))
		Expect(n.PullCheck(r, flow.TagDefault)).To(Equal(flow.Empty()))
	})

	It("should fall back to the default handler for unknown tags", func() {
		n.HandlePushCheck(flow.TagDefault, func(r flow.Record) flow.Record {
			return r
		})

		r := makeRecord(5, 2, 1)

		Expect(n.PushCheck(r, "Storm")).To(Equal(r))
	})

	It("should panic on an invalid name", func() {
		Expect(func() { New("bad name") }).To(Panic())
	})
})

var _ = Describe("Distribution", func() {
	It("should fan a push out in proportion to capacity", func() {
		src := NewStorage("Source", NewTank(100, makeRecord(20, 4, 0)))
		sink1 := NewWaste("Sink1")
		sink2 := NewWaste("Sink2")

		arc.MakeBuilder().
			WithSource(src).
			WithDestination(sink1).
			WithCapacity(6).
			Build("Source.ToSink1")
		arc.MakeBuilder().
			WithSource(src).
			WithDestination(sink2).
			WithCapacity(4).
			Build("Source.ToSink2")

		notPushed := src.PushDistributed(makeRecord(5, 1, 0), flow.TagDefault)

		Expect(notPushed.IsNegligible()).To(BeTrue())
		Expect(sink1.Received().Volume).To(BeNumerically("~", 3, 1e-9))
		Expect(sink2.Received().Volume).To(BeNumerically("~", 2, 1e-9))
	})

	It("should weight the fan-out by preference", func() {
		src := NewStorage("Source", NewTank(100, makeRecord(20, 4, 0)))
		sink1 := NewWaste("Sink1")
		sink2 := NewWaste("Sink2")

		arc.MakeBuilder().
			WithSource(src).
			WithDestination(sink1).
			WithCapacity(10).
			WithPreference(3).
			Build("Source.ToSink1")
		arc.MakeBuilder().
			WithSource(src).
			WithDestination(sink2).
			WithCapacity(10).
			WithPreference(1).
			Build("Source.ToSink2")

		notPushed := src.PushDistributed(makeRecord(4, 1, 0), flow.TagDefault)

		Expect(notPushed.IsNegligible()).To(BeTrue())
		Expect(sink1.Received().Volume).To(BeNumerically("~", 3, 1e-9))
		Expect(sink2.Received().Volume).To(BeNumerically("~", 1, 1e-9))
	})

	It("should return what no link would take", func() {
		src := NewStorage("Source", NewTank(100, makeRecord(20, 4, 0)))
		sink1 := NewWaste("Sink1")
		sink2 := NewWaste("Sink2")

		arc.MakeBuilder().
			WithSource(src).
			WithDestination(sink1).
			WithCapacity(2).
			Build("Source.ToSink1")
		arc.MakeBuilder().
			WithSource(src).
			WithDestination(sink2).
			WithCapacity(3).
			Build("Source.ToSink2")

		notPushed := src.PushDistributed(makeRecord(8, 2, 0), flow.TagDefault)

		Expect(notPushed.Volume).To(BeNumerically("~", 3, 1e-9))
		Expect(sink1.Received().Volume).To(BeNumerically("~", 2, 1e-9))
		Expect(sink2.Received().Volume).To(BeNumerically("~", 3, 1e-9))
	})

	It("should gather a pull in proportion to availability", func() {
		src1 := NewStorage("Source1", NewTank(100, makeRecord(6, 3, 0)))
		src2 := NewStorage("Source2", NewTank(100, makeRecord(4, 1, 0)))
		sink := NewStorage("Sink", NewTank(100, flow.Empty()))

		arc.MakeBuilder().
			WithSource(src1).
			WithDestination(sink).
			Build("Source1.ToSink")
		arc.MakeBuilder().
			WithSource(src2).
			WithDestination(sink).
			Build("Source2.ToSink")

		pulled := sink.PullDistributed(makeRecord(5, 0, 0), flow.TagDefault)

		Expect(pulled.Volume).To(BeNumerically("~", 5, 1e-9))
		Expect(src1.Tank().Storage().Volume).To(BeNumerically("~", 3, 1e-9))
		Expect(src2.Tank().Storage().Volume).To(BeNumerically("~", 2, 1e-9))
	})
})
