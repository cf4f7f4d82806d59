package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyFile duplicates a test fixture under a new name
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

func TestLoadScene_DispatchesOnExtension(t *testing.T) {
	objMesh, err := LoadScene(writeTestOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, objMesh.NumTriangles())

	plyMesh, err := LoadScene(writeTestPLY(t, true))
	require.NoError(t, err)
	assert.Equal(t, 2, plyMesh.NumTriangles())
	assert.True(t, plyMesh.HasNormals())
}

func TestLoadScene_UppercaseExtension(t *testing.T) {
	src := writeTestOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	dst := filepath.Join(filepath.Dir(src), "TEST.OBJ")
	require.NoError(t, copyFile(src, dst))

	mesh, err := LoadScene(dst)
	require.NoError(t, err)
	assert.Equal(t, 1, mesh.NumTriangles())
}

func TestLoadScene_UnknownExtension(t *testing.T) {
	_, err := LoadScene("scene.bk3d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unhandled filename extension")
}

func TestLoadScene_NoExtension(t *testing.T) {
	_, err := LoadScene("scene")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not parse filename extension")
}
