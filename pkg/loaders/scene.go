// Package loaders reads triangulated meshes from scene files for the
// surface sampler. Format selection is by filename extension.
package loaders

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-ao-baker/pkg/bake"
)

// LoadScene loads a mesh, dispatching on the filename extension.
// Supported formats: .obj (ASCII Wavefront) and .ply (binary little-endian).
func LoadScene(filename string) (*bake.Mesh, error) {
	startTime := time.Now()

	var mesh *bake.Mesh
	var err error

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".obj":
		mesh, err = LoadOBJ(filename)
	case ".ply":
		mesh, err = LoadPLY(filename)
	case "":
		return nil, fmt.Errorf("could not parse filename extension for: %s", filename)
	default:
		return nil, fmt.Errorf("unhandled filename extension: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("loaded scene",
		zap.String("file", filename),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.NumTriangles()),
		zap.Bool("normals", mesh.HasNormals()),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	return mesh, nil
}
