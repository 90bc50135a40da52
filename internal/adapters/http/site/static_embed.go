package site

import (
	"embed"
	"io/fs"
	"time"
)

//go:embed static/*
var staticFS embed.FS

// Embedded files carry no mod time; the process start stands in for
// Last-Modified so conditional requests still work.
var startTime = time.Now()

// FS returns the embedded front end rooted at static/.
func FS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}
