package server

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// handleSPA serves the built web client from dir. Paths without a matching
// file get index.html so client-side routes such as /wizard/abc load the app.
// Unknown /api paths still 404 as JSON.
func handleSPA(dir string) http.HandlerFunc {
	root := http.Dir(dir)
	fileServer := http.FileServer(root)

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		f, err := root.Open(path.Clean("/" + r.URL.Path))
		if err == nil {
			info, statErr := f.Stat()
			f.Close()
			if statErr == nil && !info.IsDir() {
				fileServer.ServeHTTP(w, r)
				return
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		http.ServeFile(w, r, path.Join(dir, "index.html"))
	}
}
