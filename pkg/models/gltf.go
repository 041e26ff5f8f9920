package models

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/sebas2906/portfolio/pkg/math3d"
)

// GLTFLoader turns glTF/GLB documents into a single Mesh. All meshes of the
// document are merged; node transforms are ignored and the result is fitted
// to FitSize so it can stand in for a procedural section shape.
type GLTFLoader struct {
	SmoothNormals bool
	FitSize       float64
}

// NewGLTFLoader creates a loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		SmoothNormals: true,
		FitSize:       2,
	}
}

// LoadGLTF loads a .gltf or .glb file with the default options.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads a glTF or GLB file from disk.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.build(filepath.Base(path), doc)
}

// Decode reads a self-contained glTF document (embedded buffers only).
func (l *GLTFLoader) Decode(name string, r io.Reader) (*Mesh, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}
	return l.build(name, &doc)
}

func (l *GLTFLoader) build(name string, doc *gltf.Document) (*Mesh, error) {
	mesh := NewMesh(name)
	hasNormals := true

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			ok, err := appendPrimitive(doc, prim, mesh)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: %w", gm.Name, err)
			}
			if !ok {
				hasNormals = false
			}
		}
	}

	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("gltf %s: no triangle primitives", name)
	}

	if l.SmoothNormals || !hasNormals {
		mesh.CalculateSmoothNormals()
	}
	if l.FitSize > 0 {
		mesh.Fit(l.FitSize)
	} else {
		mesh.CalculateBounds()
	}

	return mesh, nil
}

// appendPrimitive adds one triangle primitive to mesh and reports whether it
// carried its own normals.
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) (bool, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return true, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return true, nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return false, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
		if err != nil {
			return false, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
		if err != nil {
			return false, fmt.Errorf("read uvs: %w", err)
		}
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		var n math3d.Vec3
		if i < len(normals) {
			n = vec3f(normals[i])
		}
		var uv math3d.Vec2
		if i < len(uvs) {
			// glTF puts V=0 at the top of the image.
			uv = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}
		mesh.addVertex(vec3f(p), n, uv)
	}

	if prim.Indices == nil {
		for i := 0; i+2 < len(positions); i += 3 {
			mesh.addTriangle(base+i, base+i+1, base+i+2)
		}
		return len(normals) > 0, nil
	}

	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return false, fmt.Errorf("read indices: %w", err)
	}
	for i := 0; i+2 < len(indices); i += 3 {
		mesh.addTriangle(base+int(indices[i]), base+int(indices[i+1]), base+int(indices[i+2]))
	}

	return len(normals) > 0, nil
}

func vec3f(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}
