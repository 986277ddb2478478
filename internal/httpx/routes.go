package httpx

import (
	"log"
	"net/http"
	"strings"
)

// Router is a ServeMux that remembers its patterns so they can be printed at startup.
type Router struct {
	mux    *http.ServeMux
	routes []string
}

func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) RegisterRouteHandler(pattern string, handler http.Handler) {
	r.routes = append(r.routes, pattern)
	r.mux.Handle(pattern, handler)
}

func (r *Router) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	r.routes = append(r.routes, pattern)
	r.mux.HandleFunc(pattern, handler)
}

func (r *Router) Routes() []string {
	return append([]string(nil), r.routes...)
}

// LogRoutes prints every registered pattern in DEV.
func (r *Router) LogRoutes(env string) {
	if env != "DEV" {
		return
	}
	for _, route := range r.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			LogRoute(parts[0], parts[1])
		} else {
			LogRoute("", parts[0])
		}
	}
}

func LogRoute(method, path string) {
	log.Printf("[%-19s] %s\n", colourMethod(method), path)
}

func LogError(method, path, error string) {
	log.Printf("[%-19s] %s %s\n", colourMethod(method), path, Red+error+ResetColor)
}
