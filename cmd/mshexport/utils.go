package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/mshexport/converter"
	"github.com/binzume/mshexport/fbx"
	"github.com/binzume/mshexport/geom"
	"github.com/binzume/mshexport/gltfutil"
	"github.com/binzume/mshexport/mmd"
	"github.com/binzume/mshexport/mqo"
	"github.com/binzume/mshexport/msh"
	"github.com/binzume/mshexport/scene"
	"github.com/binzume/mshexport/vrm"
	"github.com/qmuntal/gltf"
)

var sceneExts = map[string]bool{".mqo": true, ".mqoz": true, ".gltf": true, ".glb": true, ".fbx": true, ".pmx": true, ".pmd": true, ".vrm": true}

const configSuffix = ".mshconfig.yaml"

func isSceneFile(path string) bool {
	return sceneExts[strings.ToLower(filepath.Ext(path))]
}

func isMSHFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == msh.Ext
}

// findInput returns the index of the first scene or .msh file in args.
func findInput(args []string) (int, error) {
	for i, arg := range args {
		if isSceneFile(arg) || isMSHFile(arg) {
			return i, nil
		}
	}
	return -1, errors.New("no scene file (.mqo, .mqoz, .gltf, .glb, .fbx, .pmx, .pmd, .vrm) in arguments")
}

// configFile returns <base>.mshconfig.yaml next to input if it exists.
func configFile(input string) string {
	path := input[0:len(input)-len(filepath.Ext(input))] + configSuffix
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func loadScene(input string) (*scene.Document, error) {
	ext := strings.ToLower(filepath.Ext(input))
	if ext == ".mqo" || ext == ".mqoz" {
		doc, err := mqo.Load(input)
		if err != nil {
			return nil, err
		}
		return converter.NewMQOToSceneConverter(nil).Convert(doc)
	} else if ext == ".gltf" || ext == ".glb" || ext == ".vrm" {
		doc, err := gltfutil.Load(input)
		if err != nil {
			return nil, err
		}
		if name := vrm.ModelName(doc); name != "" {
			log.Printf("VRM: %s", name)
		}
		return converter.NewGLTFToSceneConverter(nil).Convert(doc)
	} else if ext == ".fbx" {
		doc, err := fbx.Load(input)
		if err != nil {
			return nil, err
		}
		return converter.NewFBXToSceneConverter(nil).Convert(doc)
	} else if ext == ".pmx" || ext == ".pmd" {
		doc, err := mmd.Load(input)
		if err != nil {
			return nil, err
		}
		return converter.NewMMDToSceneConverter(nil).Convert(doc)
	}
	return nil, fmt.Errorf("unsupported input type: %v", ext)
}

func bounds(m *msh.Mesh) (min, max geom.Vector3) {
	for i, v := range m.Vertices {
		if i == 0 {
			min, max = v.Pos, v.Pos
			continue
		}
		min = geom.Vector3{X: minf(min.X, v.Pos.X), Y: minf(min.Y, v.Pos.Y), Z: minf(min.Z, v.Pos.Z)}
		max = geom.Vector3{X: maxf(max.X, v.Pos.X), Y: maxf(max.Y, v.Pos.Y), Z: maxf(max.Z, v.Pos.Z)}
	}
	return
}

func minf(a, b geom.Element) geom.Element {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b geom.Element) geom.Element {
	if a > b {
		return a
	}
	return b
}

func printInfo(w io.Writer, path string, m *msh.Mesh) {
	min, max := bounds(m)
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  vertices:  %d\n", len(m.Vertices))
	fmt.Fprintf(w, "  triangles: %d\n", m.TriangleCount())
	fmt.Fprintf(w, "  bounds:    (%v, %v, %v) - (%v, %v, %v)\n", min.X, min.Y, min.Z, max.X, max.Y, max.Z)
}

// saveMSHAs writes m as a .mqo or .glb file for viewing in other tools.
func saveMSHAs(m *msh.Mesh, name, output string, scale float32) error {
	ext := strings.ToLower(filepath.Ext(output))
	if ext == ".mqo" {
		doc, err := converter.NewMSHToMQOConverter().Convert(m, name)
		if err != nil {
			return err
		}
		return mqo.Save(doc, output)
	} else if ext == ".glb" {
		var s float32
		if scale != 0 {
			s = 1 / scale
		}
		doc, err := converter.NewMSHToGLTFConverter(&converter.MSHToGLTFOption{Scale: s}).Convert(m, name)
		if err != nil {
			return err
		}
		return gltf.SaveBinary(doc, output)
	}
	return fmt.Errorf("unsupported output type: %v", ext)
}
