package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/ephemeris"
)

type Loader interface {
	Load(path string, params interface{}) (*Resource, error) // `interface{}` here allows loaders to take their own parameters
}

type SceneLoader struct{}

func (sl *SceneLoader) Load(path string, params interface{}) (*Resource, error) {
	cfg, size, err := loadScene(path)
	if err != nil {
		return nil, err
	}
	return &Resource{Name: filepath.Base(path), FullPath: path, Type: ResourceTypeScene, DataSize: size, Data: cfg}, nil
}

type EphemerisLoader struct{}

func (el *EphemerisLoader) Load(path string, params interface{}) (*Resource, error) {
	track, err := LoadEphemeris(path)
	if err != nil {
		return nil, err
	}
	return &Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     ResourceTypeEphemeris,
		DataSize: uint64(track.Len()),
		Data:     track,
	}, nil
}

// TextureLoader takes an optional *TextureParams.
type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, params interface{}) (*Resource, error) {
	p := DefaultTextureParams()
	if typed, ok := params.(*TextureParams); ok && typed != nil {
		p = *typed
	}
	img, err := LoadTexture(path, p)
	if err != nil {
		return nil, err
	}
	return &Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     ResourceTypeTexture,
		DataSize: uint64(len(img.Pix)),
		Data:     img,
	}, nil
}

type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string, params interface{}) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewResourceError(path, err)
	}
	return &Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     ResourceTypeShader,
		DataSize: uint64(len(data)),
		Data:     string(data),
	}, nil
}

// LoadEphemeris reads a sample file and builds its track. `.csv` files hold
// `year,day,hour,x,y,z` rows; anything else is read as the same columns
// separated by whitespace.
func LoadEphemeris(path string) (*ephemeris.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewResourceError(path, err)
	}
	defer f.Close()

	var samples []ephemeris.Sample
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		samples, err = ephemeris.ReadCSV(f)
	} else {
		samples, err = ephemeris.ReadText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	track, err := ephemeris.NewTrack(samples)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return track, nil
}
