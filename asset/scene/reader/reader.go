package reader

import (
	"context"
	"fmt"

	"github.com/achilleasa/prism/asset"
	"github.com/achilleasa/prism/scene"
)

// The Reader interface is implemented by all mesh readers.
type Reader interface {
	// Read mesh triangles from a resource.
	Read(*asset.Resource) ([]scene.Primitive, error)
}

// ReadMesh loads the triangles of a mesh file. Faces that do not select a
// material are assigned defaultMaterial.
func ReadMesh(filename string, defaultMaterial *scene.Material) ([]scene.Primitive, error) {
	return ReadMeshContext(context.Background(), filename, defaultMaterial)
}

// ReadMeshContext behaves like ReadMesh; ctx bounds the fetch of remote mesh
// files.
func ReadMeshContext(ctx context.Context, filename string, defaultMaterial *scene.Material) ([]scene.Primitive, error) {
	res, err := asset.NewResourceContext(ctx, filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	reader, err := readerFor(res, defaultMaterial)
	if err != nil {
		return nil, err
	}
	return reader.Read(res)
}

// Select reader based on file extension
func readerFor(res *asset.Resource, defaultMaterial *scene.Material) (Reader, error) {
	if defaultMaterial == nil {
		return nil, fmt.Errorf("readMesh: no default material specified")
	}

	switch res.Ext() {
	case ".obj":
		return newWavefrontReader(defaultMaterial), nil
	}
	return nil, fmt.Errorf("readMesh: unsupported file format %q", res.Ext())
}
