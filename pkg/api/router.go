package api

import (
	"net/http"
	"strings"
)

// router dispatches on the exact procedure path.
func router(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func trimSlash(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
