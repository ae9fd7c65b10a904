package http

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed assets
var embeddedAssets embed.FS

// DefaultAssets returns the stylesheet, script and images referenced by generated reports.
func DefaultAssets() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

var assetExtensions = map[string]bool{
	".css": true,
	".js":  true,
	".gif": true,
	".png": true,
}

// IsAsset reports whether the final path element carries an allowed asset extension.
func IsAsset(requestPath string) bool {
	return assetExtensions[strings.ToLower(path.Ext(requestPath))]
}

// staticHandler serves allow-listed assets from fsys regardless of the mount
// point: the longest suffix of the request path that names a file wins, so
// /coverage/images/bar.png resolves to images/bar.png.
type staticHandler struct {
	fsys fs.FS
}

func (s staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ok := s.resolve(r.URL.Path)
	if !ok || !IsAsset(name) {
		http.NotFound(w, r)
		return
	}
	http.ServeFileFS(w, r, s.fsys, name)
}

func (s staticHandler) resolve(requestPath string) (string, bool) {
	clean := strings.TrimPrefix(path.Clean("/"+requestPath), "/")
	if clean == "" {
		return "", false
	}
	parts := strings.Split(clean, "/")
	for i := range parts {
		candidate := strings.Join(parts[i:], "/")
		if !fs.ValidPath(candidate) {
			continue
		}
		info, err := fs.Stat(s.fsys, candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
