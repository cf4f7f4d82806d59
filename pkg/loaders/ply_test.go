package loaders

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-ao-baker/pkg/core"
)

// writeTestPLY writes a binary little-endian PLY file with a unit quad
// split into two triangles and returns its path.
func writeTestPLY(t *testing.T, includeNormals bool) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format binary_little_endian 1.0\n")
	buf.WriteString("comment generated by test\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")
	if includeNormals {
		buf.WriteString("property float nx\n")
		buf.WriteString("property float ny\n")
		buf.WriteString("property float nz\n")
	}
	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	vertices := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	for _, v := range vertices {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
		if includeNormals {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, [3]float32{0, 0, 1}))
		}
	}

	for _, face := range [][3]int32{{0, 1, 2}, {0, 2, 3}} {
		buf.WriteByte(3)
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, face))
	}

	path := filepath.Join(t.TempDir(), "test.ply")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestLoadPLY_Positions(t *testing.T) {
	mesh, err := LoadPLY(writeTestPLY(t, false))
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 4)
	assert.Equal(t, core.NewVec3(1, 1, 0), mesh.Vertices[2])
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, mesh.Triangles)
	assert.False(t, mesh.HasNormals())
}

func TestLoadPLY_Normals(t *testing.T) {
	mesh, err := LoadPLY(writeTestPLY(t, true))
	require.NoError(t, err)

	require.True(t, mesh.HasNormals())
	require.Len(t, mesh.Normals, 4)
	for _, n := range mesh.Normals {
		assert.InDelta(t, 0.0, n.Subtract(core.NewVec3(0, 0, 1)).Length(), 1e-6)
	}

	// Vertex normals share the vertex index triplets
	assert.Equal(t, mesh.Triangles, mesh.NormalTriangles)

	require.NoError(t, mesh.Validate())
	if math.IsNaN(mesh.Normals[0].X) {
		t.Error("normal decoded as NaN")
	}
}

func TestLoadPLY_CRLFHeader(t *testing.T) {
	var buf bytes.Buffer
	for _, line := range []string{
		"ply",
		"format binary_little_endian 1.0",
		"element vertex 3",
		"property float x",
		"property float y",
		"property float z",
		"element face 1",
		"property list uchar int vertex_indices",
		"end_header",
	} {
		buf.WriteString(line)
		buf.WriteString("\r\n")
	}

	for _, v := range [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	buf.WriteByte(3)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [3]int32{0, 1, 2}))

	path := filepath.Join(t.TempDir(), "crlf.ply")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	mesh, err := LoadPLY(path)
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 3)
	assert.Equal(t, core.NewVec3(0, 0, 0), mesh.Vertices[0])
	assert.Equal(t, core.NewVec3(1, 0, 0), mesh.Vertices[1])
	assert.Equal(t, core.NewVec3(0, 1, 0), mesh.Vertices[2])
	assert.Equal(t, [][3]int{{0, 1, 2}}, mesh.Triangles)
}

func TestLoadPLY_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ascii.ply")
	content := "ply\nformat ascii 1.0\nelement vertex 0\nelement face 0\nend_header\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadPLY(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported PLY format")
}

func TestLoadPLY_MissingFile(t *testing.T) {
	_, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply"))
	assert.Error(t, err)
}
