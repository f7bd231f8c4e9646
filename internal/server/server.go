package server

import (
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/nullwiz/audiopipe/internal/app"
)

func Handler(staticFS fs.FS, hub *Hub, engine *app.Engine, opts Options) http.Handler {
	mux := http.NewServeMux()

	registerWSRoute(mux, hub, engine)
	registerAPIRoutes(mux, engine, opts)

	fileServer := http.FileServer(http.FS(staticFS))
	mux.HandleFunc("/", serveSPA(fileServer))

	return mux
}

func Serve(addr string, staticFS fs.FS, hub *Hub, engine *app.Engine, opts Options) error {
	h := Handler(staticFS, hub, engine, opts)

	log.Printf("web UI at http://%s", addr)
	return http.ListenAndServe(addr, h)
}

func serveSPA(fileServer http.Handler) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/ws" {
			http.NotFound(w, r)
			return
		}

		cleanPath := path.Clean(strings.TrimPrefix(r.URL.Path, "/"))
		if cleanPath == "." || cleanPath == "" {
			r.URL.Path = "/"
		} else if !strings.Contains(cleanPath, ".") {
			r.URL.Path = "/index.html"
		} else {
			r.URL.Path = "/" + cleanPath
		}

		fileServer.ServeHTTP(w, r)
	}
}
