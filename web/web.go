// Package web holds the embedded HTML views.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed views
var files embed.FS

// Views returns the view tree rooted at views/.
func Views() (http.FileSystem, error) {
	sub, err := fs.Sub(files, "views")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}
