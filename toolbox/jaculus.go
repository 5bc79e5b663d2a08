package toolbox

import (
	"embed"
	"io/fs"
)

// JaculusManifest is the manifest path inside JaculusFS.
const JaculusManifest = "jaculus.yaml"

//go:embed jaculus
var jaculusFiles embed.FS

// JaculusFS holds the declarations of the Jaculus runtime modules and
// their toolbox manifest.
func JaculusFS() fs.FS {
	sub, err := fs.Sub(jaculusFiles, "jaculus")
	if err != nil {
		panic(err)
	}
	return sub
}

// Jaculus builds the palette of the Jaculus runtime.
func Jaculus() (*Result, error) {
	fsys := JaculusFS()
	m, err := LoadManifestFS(fsys, JaculusManifest)
	if err != nil {
		return nil, err
	}
	return Build(m, fsys)
}
