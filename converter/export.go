package converter

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/binzume/mshexport/msh"
	"github.com/binzume/mshexport/scene"
	"github.com/binzume/mshexport/uvlayout"
	yaml "gopkg.in/yaml.v2"
)

type UVLayoutConfig struct {
	Path string `yaml:"path"`
	Size int    `yaml:"size"`
}

// ExportConfig holds everything one export needs. Built once at startup.
type ExportConfig struct {
	Input      string          `yaml:"-"`
	Output     string          `yaml:"output"`
	ObjectName string          `yaml:"object"`
	Scale      float32         `yaml:"scale"`
	RotationX  *float64        `yaml:"rotationX"` // degrees
	UVLayer    string          `yaml:"uvLayer"`
	UVLayout   *UVLayoutConfig `yaml:"uvLayout"`
}

// NewExportConfig derives the output path and object name from input:
// "dir/Cube.mqo" exports object "Cube" to "dir/Cube.msh".
func NewExportConfig(input string) *ExportConfig {
	base := input[0 : len(input)-len(filepath.Ext(input))]
	return &ExportConfig{
		Input:      input,
		Output:     base + msh.Ext,
		ObjectName: filepath.Base(base),
	}
}

// LoadExportConfig overlays the YAML file at path onto conf.
func LoadExportConfig(path string, conf *ExportConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(data, conf); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (conf *ExportConfig) ConverterOption() *SceneToMSHOption {
	return &SceneToMSHOption{
		Scale:     conf.Scale,
		RotationX: conf.RotationX,
		UVLayer:   conf.UVLayer,
	}
}

// Export writes the object conf.ObjectName of src to conf.Output.
// Nothing is written when the lookup or the conversion fails.
func Export(src scene.Source, conf *ExportConfig) (*msh.Mesh, error) {
	log.Printf("exporting %s -> %s", conf.Input, conf.Output)

	obj, err := src.LookupObject(conf.ObjectName)
	if err != nil {
		return nil, err
	}
	m, err := NewSceneToMSHConverter(conf.ConverterOption()).Convert(obj)
	if err != nil {
		return nil, err
	}

	log.Printf("%d vertices", len(m.Vertices))
	log.Printf("%d triangles", m.TriangleCount())

	if err := msh.Save(m, conf.Output); err != nil {
		return nil, fmt.Errorf("write %s: %w", conf.Output, err)
	}

	if conf.UVLayout != nil && conf.UVLayout.Path != "" {
		img := uvlayout.Render(m, conf.UVLayout.Size)
		if err := uvlayout.Save(img, conf.UVLayout.Path); err != nil {
			return m, fmt.Errorf("uv layout %s: %w", conf.UVLayout.Path, err)
		}
		log.Print("uv layout: ", conf.UVLayout.Path)
	}
	return m, nil
}
