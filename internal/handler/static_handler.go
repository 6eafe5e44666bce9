package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"paygate-console/internal/util"
)

// StaticHandler serves the built console. Paths without a file fall back to
// index.html so client-side routes load.
type StaticHandler struct {
	assets *util.AssetRoot
	files  http.Handler
}

func NewStaticHandler(root string) (*StaticHandler, error) {
	assets, err := util.NewAssetRoot(root)
	if err != nil {
		return nil, err
	}

	return &StaticHandler{assets: assets, files: http.FileServer(http.Dir(assets.Dir()))}, nil
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)
	if strings.HasPrefix(clean, "/api/") {
		http.NotFound(w, r)
		return
	}

	resolved, err := h.assets.Resolve(clean)
	if err != nil {
		writeError(w, r, err)
		return
	}

	info, err := os.Stat(resolved)
	if err == nil && !info.IsDir() {
		if strings.HasPrefix(clean, "/assets/") {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		h.files.ServeHTTP(w, r)
		return
	}

	if path.Ext(clean) != "" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, filepath.Join(h.assets.Dir(), "index.html"))
}
