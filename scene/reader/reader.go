package reader

import (
	"fmt"

	"github.com/NogikuchiKBYS/CUDAPathTracer/asset"
	"github.com/NogikuchiKBYS/CUDAPathTracer/scene"
)

// A parsed scene file.
type Description struct {
	// Camera and frame settings defined by the scene file or nil if the
	// file does not define any.
	Settings *scene.RenderSettings

	// The ordered object list.
	Objects []scene.Object
}

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*Description, error)
}

// Read scene from a local file or http(s) URL. The reader is selected by
// the file extension.
func ReadScene(pathToScene string) (*Description, error) {
	res, err := asset.NewResource(pathToScene, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	reader, err := readerFor(res.Ext())
	if err != nil {
		return nil, err
	}
	return reader.Read(res)
}

func readerFor(ext string) (Reader, error) {
	switch ext {
	case ".json":
		return newJSONReader(), nil
	case ".obj":
		return newWavefrontReader(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}
