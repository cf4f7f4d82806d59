package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-ao-baker/pkg/bake"
	"github.com/df07/go-ao-baker/pkg/core"
)

// plyHeader represents the parsed header information from a PLY file
type plyHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	VertexCount int
	FaceCount   int
	VertexProps []plyProperty
	FaceProps   []plyProperty
	HasNormals  bool
}

// plyProperty represents a property definition in the PLY header
type plyProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // for list properties, the type of the count
	DataType string // for list properties, the type of the data
}

// LoadPLY loads a binary little-endian PLY mesh. Positions and optional
// per-vertex normals are kept; other vertex properties are skipped. When
// normals are present, the vertex index triplets double as the normal
// index triplets.
func LoadPLY(filename string) (*bake.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	header, headerSize, err := parsePLYHeader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	if header.Format != "binary_little_endian" {
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}

	if _, err := file.Seek(int64(headerSize), io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to binary data: %w", err)
	}

	mesh, err := readBinaryLittleEndian(file, header)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}

	return mesh, nil
}

// parsePLYHeader parses the PLY header and returns the byte offset where
// binary data starts. Lines are read raw so the offset stays exact for
// both LF and CRLF headers.
func parsePLYHeader(file *os.File) (*plyHeader, int, error) {
	header := &plyHeader{}

	reader := bufio.NewReader(file)
	var bytesRead int
	var currentElement string

	for {
		rawLine, err := reader.ReadString('\n')
		bytesRead += len(rawLine)
		line := strings.TrimSpace(rawLine)

		if line == "end_header" {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("header missing end_header: %w", err)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "ply", "comment":
			// Magic number and comments carry no data
		case "format":
			if len(parts) >= 2 {
				header.Format = parts[1]
			}
		case "element":
			if len(parts) >= 3 {
				count, err := strconv.Atoi(parts[2])
				if err != nil {
					return nil, 0, fmt.Errorf("invalid element count: %s", parts[2])
				}
				currentElement = parts[1]
				switch currentElement {
				case "vertex":
					header.VertexCount = count
				case "face":
					header.FaceCount = count
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, 0, fmt.Errorf("failed to parse property: %w", err)
			}
			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				switch prop.Name {
				case "nx", "ny", "nz":
					header.HasNormals = true
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	return header, bytesRead, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) < 2 {
		return plyProperty{}, fmt.Errorf("invalid property definition")
	}

	prop := plyProperty{}
	if parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}
	return prop, nil
}

// plyTypeSize returns the byte size of a simple PLY data type
func plyTypeSize(dataType string) (int, error) {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1, nil
	case "short", "int16", "ushort", "uint16":
		return 2, nil
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4, nil
	case "double", "float64":
		return 8, nil
	default:
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
}

// readBinaryLittleEndian reads the vertex and face elements into a mesh
func readBinaryLittleEndian(file *os.File, header *plyHeader) (*bake.Mesh, error) {
	reader := bufio.NewReaderSize(file, 1<<20)

	mesh := &bake.Mesh{
		Vertices:  make([]core.Vec3, 0, header.VertexCount),
		Triangles: make([][3]int, 0, header.FaceCount),
	}
	if header.HasNormals {
		mesh.Normals = make([]core.Vec3, 0, header.VertexCount)
	}

	// Per-vertex byte layout, derived once from the header
	vertexSize := 0
	offsets := make(map[string]int, len(header.VertexProps))
	for _, prop := range header.VertexProps {
		if prop.IsList {
			return nil, fmt.Errorf("list-typed vertex property %s not supported", prop.Name)
		}
		size, err := plyTypeSize(prop.Type)
		if err != nil {
			return nil, err
		}
		offsets[prop.Name] = vertexSize
		vertexSize += size
	}
	for _, name := range []string{"x", "y", "z"} {
		if _, ok := offsets[name]; !ok {
			return nil, fmt.Errorf("vertex element missing %s property", name)
		}
	}

	buf := make([]byte, vertexSize)
	for i := 0; i < header.VertexCount; i++ {
		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, fmt.Errorf("failed to read vertex %d: %w", i, err)
		}
		mesh.Vertices = append(mesh.Vertices, core.NewVec3(
			float32At(buf, offsets["x"]),
			float32At(buf, offsets["y"]),
			float32At(buf, offsets["z"]),
		))
		if header.HasNormals {
			mesh.Normals = append(mesh.Normals, core.NewVec3(
				float32At(buf, offsets["nx"]),
				float32At(buf, offsets["ny"]),
				float32At(buf, offsets["nz"]),
			))
		}
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if prop.IsList && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
				tri, err := readFaceIndices(reader, prop, i)
				if err != nil {
					return nil, err
				}
				mesh.Triangles = append(mesh.Triangles, tri)
			} else if err := skipProperty(reader, prop); err != nil {
				return nil, fmt.Errorf("failed to skip face property %s at face %d: %w", prop.Name, i, err)
			}
		}
	}

	if header.HasNormals {
		mesh.NormalTriangles = make([][3]int, len(mesh.Triangles))
		copy(mesh.NormalTriangles, mesh.Triangles)
	}

	return mesh, nil
}

// float32At decodes a little-endian float32 at the given byte offset
func float32At(buf []byte, offset int) float64 {
	bits := binary.LittleEndian.Uint32(buf[offset:])
	return float64(math.Float32frombits(bits))
}

// readFaceIndices reads one triangular face's vertex index list
func readFaceIndices(reader *bufio.Reader, prop plyProperty, faceIdx int) ([3]int, error) {
	var count int
	switch prop.ListType {
	case "uchar", "uint8":
		c, err := reader.ReadByte()
		if err != nil {
			return [3]int{}, fmt.Errorf("failed to read face vertex count at face %d: %w", faceIdx, err)
		}
		count = int(c)
	case "int", "int32", "uint", "uint32":
		var c int32
		if err := binary.Read(reader, binary.LittleEndian, &c); err != nil {
			return [3]int{}, fmt.Errorf("failed to read face vertex count at face %d: %w", faceIdx, err)
		}
		count = int(c)
	default:
		return [3]int{}, fmt.Errorf("unsupported list count type: %s", prop.ListType)
	}

	if count != 3 {
		return [3]int{}, fmt.Errorf("only triangular faces supported, got %d vertices at face %d", count, faceIdx)
	}

	var tri [3]int
	switch prop.DataType {
	case "int", "int32", "uint", "uint32":
		var indices [3]int32
		if err := binary.Read(reader, binary.LittleEndian, &indices); err != nil {
			return [3]int{}, fmt.Errorf("failed to read face indices at face %d: %w", faceIdx, err)
		}
		tri = [3]int{int(indices[0]), int(indices[1]), int(indices[2])}
	default:
		return [3]int{}, fmt.Errorf("unsupported face index data type: %s", prop.DataType)
	}
	return tri, nil
}

// skipProperty skips a property in the binary stream
func skipProperty(reader *bufio.Reader, prop plyProperty) error {
	if !prop.IsList {
		size, err := plyTypeSize(prop.Type)
		if err != nil {
			return err
		}
		_, err = reader.Discard(size)
		return err
	}

	var count int
	switch prop.ListType {
	case "uchar", "uint8":
		c, err := reader.ReadByte()
		if err != nil {
			return err
		}
		count = int(c)
	default:
		return fmt.Errorf("unsupported list count type: %s", prop.ListType)
	}

	size, err := plyTypeSize(prop.DataType)
	if err != nil {
		return err
	}
	_, err = reader.Discard(count * size)
	return err
}
