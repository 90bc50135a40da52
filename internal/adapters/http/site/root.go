// Package site serves the embedded front end and the root redirect.
package site

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// IndexPath is where GET / sends browsers.
const IndexPath = "/static/index.html"

const staticPrefix = "/static/"

// ErrServe wraps failures reading embedded assets.
var ErrServe = errors.New("static site serve failed")

// Register attaches the root redirect and the /static/ file routes to router.
func Register(_ context.Context, router *mux.Router) {
	if router == nil {
		panic("router is nil")
	}

	router.HandleFunc("/", NewRootHandler().HandleRoot).Methods(http.MethodGet, http.MethodHead)
	router.PathPrefix(staticPrefix).Handler(NewStaticHandler()).Methods(http.MethodGet, http.MethodHead)
}

// RootHandler handles root path requests
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot redirects to the front end with 307 Temporary Redirect.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, IndexPath, http.StatusTemporaryRedirect)
}

// StaticHandler serves files from the embedded static/ tree.
//
// Unlike http.FileServer it serves index.html at its own path instead of
// redirecting to the directory, so the root redirect lands in one hop.
type StaticHandler struct {
	files   fs.FS
	modTime time.Time
}

// NewStaticHandler creates a handler over the embedded assets.
func NewStaticHandler() *StaticHandler {
	return &StaticHandler{files: FS(), modTime: startTime}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/static")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		name = "index.html"
	}

	f, err := h.files.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, info.Name(), h.modTime, rs)
}
