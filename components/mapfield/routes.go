package mapfield

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// AssetsHandler serves the client stylesheet and script from files. Only GET
// and HEAD are accepted and directory listings are refused.
func AssetsHandler(files fs.FS) http.Handler {
	server := http.FileServer(http.FS(files))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		server.ServeHTTP(w, r)
	})
}

// RegisterAssetRoutes mounts AssetsHandler under basePath so the URLs built
// by Assets for the same basePath resolve. It returns the registered pattern.
func RegisterAssetRoutes(mux Mux, basePath string, files fs.FS) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("mapfield: missing mux")
	}
	if files == nil {
		return "", fmt.Errorf("mapfield: missing asset files")
	}
	prefix := strings.TrimSuffix(assetPath(basePath, ""), "/")
	pattern := prefix + "/"
	mux.Handle(pattern, http.StripPrefix(prefix, AssetsHandler(files)))
	return pattern, nil
}
