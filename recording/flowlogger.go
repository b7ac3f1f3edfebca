package recording

import (
	"github.com/barneydobson/wsi/flow"
)

// A FlowEntry is one recorded transfer.
type FlowEntry struct {
	Timestep int
	Arc      string
	Pos      string
	Volume   float64
	BOD      float64
	Nitrate  float64
	Solids   float64
}

// FlowLogger is an arc hook that persists one row per committed transfer.
// Register it on the arcs whose flows should be kept.
type FlowLogger struct {
	recorder DataRecorder
	table    string
	timestep func() int
}

// NewFlowLogger creates a logger writing into the named table of the
// recorder. timestep supplies the current simulation step for each row.
func NewFlowLogger(
	recorder DataRecorder,
	tableName string,
	timestep func() int,
) *FlowLogger {
	recorder.CreateTable(tableName, FlowEntry{})

	return &FlowLogger{
		recorder: recorder,
		table:    tableName,
		timestep: timestep,
	}
}

// Func records the transfer carried in the hook context.
func (l *FlowLogger) Func(ctx flow.HookCtx) {
	r, ok := ctx.Item.(flow.Record)
	if !ok {
		return
	}

	l.recorder.InsertData(l.table, FlowEntry{
		Timestep: l.timestep(),
		Arc:      ctx.Domain.(flow.Named).Name(),
		Pos:      ctx.Pos.Name,
		Volume:   r.Volume,
		BOD:      r.Pollutants[flow.BOD],
		Nitrate:  r.Pollutants[flow.Nitrate],
		Solids:   r.Pollutants[flow.Solids],
	})
}
