package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/vontajamal/sentinel-eye/internal/sentinelerr"
)

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// assetHandler serves a static file from assetRoot, falling back to
// index.html on a 404, and rejecting any path that escapes assetRoot.
func assetHandler(assetRoot string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requested := filepath.Clean(r.URL.Path)
		full := filepath.Join(assetRoot, requested)

		if !strings.HasPrefix(full, filepath.Clean(assetRoot)+string(filepath.Separator)) && full != filepath.Clean(assetRoot) {
			writeErrorCode(w, sentinelerr.DashboardAssetForbidden, "path escapes asset root: "+r.URL.Path)
			return
		}

		fileServer := http.FileServer(http.Dir(assetRoot))
		recorder := &notFoundRecorder{ResponseWriter: w}
		fileServer.ServeHTTP(recorder, r)
		if recorder.notFound {
			r.URL.Path = "/index.html"
			http.FileServer(http.Dir(assetRoot)).ServeHTTP(w, r)
		}
	}
}

type notFoundRecorder struct {
	http.ResponseWriter
	notFound bool
	wrote    bool
}

func (rec *notFoundRecorder) WriteHeader(status int) {
	if status == http.StatusNotFound {
		rec.notFound = true
		return
	}
	rec.wrote = true
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *notFoundRecorder) Write(b []byte) (int, error) {
	if rec.notFound {
		return len(b), nil
	}
	if !rec.wrote {
		rec.wrote = true
	}
	return rec.ResponseWriter.Write(b)
}
