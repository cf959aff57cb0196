package views

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFiles embed.FS

// Assets returns the files served under /static/.
func (r *Renderer) Assets() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	return sub
}
