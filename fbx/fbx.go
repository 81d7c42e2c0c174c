// Package fbx reads the node tree of binary and ASCII FBX files and resolves
// the models, geometries and connections needed to rebuild a scene.
package fbx

import (
	"bufio"
	"io"
	"os"
)

const binaryMagic = "Kaydara FBX Binary  "

func Load(path string) (*Document, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

// Parse detects the encoding from the header.
func Parse(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	var root *Node
	var err error
	if head, _ := br.Peek(len(binaryMagic)); string(head) == binaryMagic {
		p := binaryParser{r: &positionReader{r: br}}
		root, err = p.Parse()
	} else {
		p := textParser{r: br}
		root, err = p.Parse()
	}
	if err != nil {
		return nil, err
	}
	return BuildDocument(root)
}
