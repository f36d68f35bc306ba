package app

import (
	"fmt"
	"strings"
)

// guarded runs fn and catches a panic instead of letting it unwind the
// runtime. The value and stack go to the log, the whole panel lights,
// and the goroutine parks. A fully lit panel is a state no running
// face ever paints.
func (s *System) guarded(name string, fn func()) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		s.deps.Log.WriteLineString(fmt.Sprintf("panic in %s: %v", name, v))
		for _, line := range strings.Split(string(captureStack()), "\n") {
			if line != "" {
				s.deps.Log.WriteLineString(line)
			}
		}
		if s.matrix != nil {
			s.matrix.Fill()
		}
		select {}
	}()
	fn()
}
