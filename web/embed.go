// Package web embeds the page templates and static assets served by journey-server.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates static
var files embed.FS

// Templates returns the template directory as the root of an fs.FS.
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic("web: failed to create templates sub filesystem: " + err.Error())
	}
	return sub
}

// StaticHandler serves the embedded static assets. Mount it behind a prefix strip.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic("web: failed to create static sub filesystem: " + err.Error())
	}
	return http.FileServer(http.FS(sub))
}
