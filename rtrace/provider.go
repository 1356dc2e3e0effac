package rtrace

import (
	"context"
	"fmt"
	"runtime"
)

// Provider captures a submission-site description at the moment a task is
// handed to the pool. The pool calls it (if set) once per submission and
// stores the result on the resulting PoolTaskHandle.
type Provider func() string

// RuntimeStack returns a Provider that captures up to maxFrames caller
// frames via runtime.Callers/CallersFrames, formatted one frame per line
// as "package.function (file:line)" — the same shape as
// ChainedPromise.CreationStackTrace.
func RuntimeStack(maxFrames int) Provider {
	if maxFrames <= 0 {
		maxFrames = 32
	}
	return func() string {
		pcs := make([]uintptr, maxFrames)
		// skip 2: runtime.Callers itself and this closure.
		n := runtime.Callers(2, pcs)
		if n == 0 {
			return ""
		}
		frames := runtime.CallersFrames(pcs[:n])
		var out string
		for {
			frame, more := frames.Next()
			if frame.Function != "" {
				if out != "" {
					out += "\n"
				}
				out += fmt.Sprintf("%s (%s:%d)", frame.Function, frame.File, frame.Line)
			}
			if !more {
				break
			}
		}
		return out
	}
}

// FromContext returns a Provider that ignores its ambient call-site and
// instead renders ctx with render as the submission-trace string.
// Useful when a pool-adjacent helper already carries a context.Context and
// would rather report that than a fresh stack capture.
func FromContext(ctx context.Context, render func(context.Context) string) Provider {
	return func() string { return render(ctx) }
}
