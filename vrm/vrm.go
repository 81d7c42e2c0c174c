// Package vrm reads the VRM 0.x extension of humanoid avatar models.
// A .vrm file is a glTF binary, so the mesh itself is read as glTF.
package vrm

// https://vrm.dev/
// https://github.com/vrm-c/vrm-specification/blob/master/specification/0.0/README.ja.md

import (
	"encoding/json"

	"github.com/qmuntal/gltf"
)

const (
	ExtensionName = "VRM"
)

func init() {
	gltf.RegisterExtension(ExtensionName, Unmarshal)
}

type Metadata struct {
	Title   string `json:"title"`
	Version string `json:"version"`
	Author  string `json:"author"`

	LicenseName     string `json:"licenseName"`
	OtherLicenseUrl string `json:"otherLicenseUrl"`
}

type VRMExt struct {
	Meta Metadata `json:"meta"`

	ExporterVersion string `json:"exporterVersion"`
}

func Unmarshal(data []byte) (interface{}, error) {
	var vrmext VRMExt
	if err := json.Unmarshal(data, &vrmext); err != nil {
		return nil, err
	}
	return &vrmext, nil
}

// Extension returns the VRM extension of doc, or nil.
func Extension(doc *gltf.Document) *VRMExt {
	if ext, ok := doc.Extensions[ExtensionName].(*VRMExt); ok {
		return ext
	}
	return nil
}

// ModelName returns the avatar title, or "" when doc is not a VRM model.
func ModelName(doc *gltf.Document) string {
	if ext := Extension(doc); ext != nil {
		return ext.Meta.Title
	}
	return ""
}
