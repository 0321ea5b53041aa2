package engine

import (
	"fmt"
	"io"
	"math"
)

// combatLog writes the human readable per-event log. A nil writer disables it.
type combatLog struct {
	w io.Writer
}

func (l *combatLog) enabled() bool {
	return l != nil && l.w != nil
}

func (l *combatLog) logAt(ts float64, format string, args ...any) {
	if !l.enabled() {
		return
	}
	ts = math.Round(ts*1000) / 1000
	prefix := fmt.Sprintf("[%6.2fs] ", ts)
	fmt.Fprintf(l.w, prefix+format+"\n", args...)
}

func (l *combatLog) logStaticf(format string, args ...any) {
	if !l.enabled() {
		return
	}
	fmt.Fprintf(l.w, format+"\n", args...)
}
