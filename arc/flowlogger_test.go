package arc

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/barneydobson/wsi/flow"
)

var _ = Describe("FlowLogger", func() {
	It("should log committed transfers", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		src := NewMockEndpoint(mockCtrl)
		dst := NewMockEndpoint(mockCtrl)
		dst.EXPECT().
			PushCheck(gomock.Any(), flow.TagDefault).
			DoAndReturn(acceptUpTo(100))
		dst.EXPECT().
			PushSet(gomock.Any(), flow.TagDefault).
			Return(flow.Empty())

		buf := &bytes.Buffer{}
		logger := NewFlowLogger(log.New(buf, "", 0))

		a := MakeBuilder().
			WithSource(src).
			WithDestination(dst).
			Build("Pipe")
		a.AcceptHook(logger)

		a.Push(makeRecord(5, 2, 1), flow.TagDefault, false)

		Expect(buf.String()).To(ContainSubstring("Pipe,Arc Push,5"))
	})
})
