package flow

import "log"

// LogHookBase provides the common logic of hooks that write into logs.
type LogHookBase struct {
	*log.Logger
}
