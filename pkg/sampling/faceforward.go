package sampling

import (
	"go.uber.org/zap"

	"github.com/df07/go-ao-baker/pkg/core"
)

// Diagnostics receives advisory notifications about degenerate mesh data.
// Flipped normals are corrected silently; the sink is only told that a
// correction happened so the caller can surface a likely authoring problem.
type Diagnostics interface {
	NormalsFlipped()
}

// logDiagnostics reports diagnostics through a zap logger
type logDiagnostics struct {
	log *zap.Logger
}

// NewLogDiagnostics returns a Diagnostics sink that logs through the given logger
func NewLogDiagnostics(log *zap.Logger) Diagnostics {
	return &logDiagnostics{log: log}
}

func (d *logDiagnostics) NormalsFlipped() {
	d.log.Warn("reversing vertex normals to point in same direction as face normals")
}

// faceforward returns n unchanged if it lies in the same hemisphere as the
// geometric normal, otherwise its negation. flipped is invoked on every
// negation; the caller is responsible for collapsing it to a one-shot
// diagnostic.
func faceforward(n, geomNormal core.Vec3, flipped func()) core.Vec3 {
	if n.Dot(geomNormal) > 0 {
		return n
	}
	flipped()
	return n.Negate()
}
