// Package debugdraw collects debug lines emitted by pose data channels and
// forwards them to an in-memory recorder, the log, or connected viewers.
package debugdraw

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/motionmatching/internal/core/observability/log"
	"github.com/zeusync/motionmatching/internal/core/spatial"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

var (
	White  = Color{R: 1, G: 1, B: 1, A: 1}
	Red    = Color{R: 1, A: 1}
	Green  = Color{G: 1, A: 1}
	Yellow = Color{R: 1, G: 1, A: 1}
)

// Display is the line drawing sink.
type Display interface {
	DrawLine(start, end spatial.Vec, color Color)
}

// DrawVelocity draws velocity as a line starting at position.
func DrawVelocity(d Display, position, velocity spatial.Vec, color Color) {
	d.DrawLine(position, r3.Add(position, velocity), color)
}

// Line is one drawn segment.
type Line struct {
	Start spatial.Vec `json:"start"`
	End   spatial.Vec `json:"end"`
	Color Color       `json:"color"`
}

// Recorder keeps every line drawn into it.
type Recorder struct {
	mu    sync.Mutex
	lines []Line
}

func (r *Recorder) DrawLine(start, end spatial.Vec, color Color) {
	r.mu.Lock()
	r.lines = append(r.lines, Line{Start: start, End: end, Color: color})
	r.mu.Unlock()
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Line, len(r.lines))
	copy(out, r.lines)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.lines = r.lines[:0]
	r.mu.Unlock()
}

// LogDisplay writes each line as a debug log entry.
type LogDisplay struct {
	Logger log.Log
}

func (d LogDisplay) DrawLine(start, end spatial.Vec, color Color) {
	d.Logger.Debug("debug line",
		log.Any("start", start),
		log.Any("end", end),
		log.Any("color", color),
	)
}
