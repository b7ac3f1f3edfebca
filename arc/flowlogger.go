package arc

import (
	"log"

	"github.com/barneydobson/wsi/flow"
)

// FlowLogger is a hook for logging records as they move through an arc.
type FlowLogger struct {
	flow.LogHookBase
}

// NewFlowLogger returns a FlowLogger which will write into the logger.
func NewFlowLogger(logger *log.Logger) *FlowLogger {
	l := new(FlowLogger)
	l.Logger = logger
	return l
}

// Func writes the transfer information into the logger.
func (l *FlowLogger) Func(ctx flow.HookCtx) {
	r, ok := ctx.Item.(flow.Record)
	if !ok {
		return
	}

	l.Printf("%s,%s,%.10g,%v\n",
		ctx.Domain.(flow.Named).Name(),
		ctx.Pos.Name,
		r.Volume,
		ctx.Detail,
	)
}
