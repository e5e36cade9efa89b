package domain

import (
	"fmt"
	"runtime"
)

// GetFunctionName reports the call site `skip` frames above the caller as
// "file:line function", for tagging logged errors with their origin.
func GetFunctionName(skip int) string {
	pc := make([]uintptr, 1)
	if runtime.Callers(skip+1, pc) < 1 {
		return "?"
	}

	frame, _ := runtime.CallersFrames(pc).Next()
	return fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function)
}
