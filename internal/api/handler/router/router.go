package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
)

// Route descreve um endpoint da API e os middlewares aplicados só a ele
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler
}

// Router encapsula o httprouter com respostas de erro no envelope da API
type Router struct {
	mux *httprouter.Router
}

type Option func(*Router)

// WithRoutes registra um grupo de rotas
func WithRoutes(routes ...Route) Option {
	return func(r *Router) {
		r.AddRoutes(routes...)
	}
}

func New(opts ...Option) Router {
	mux := httprouter.New()
	mux.NotFound = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		apiErrors.WriteError(w, apiErrors.ErrRouteNotFound, "Rota não encontrada: "+req.URL.Path, nil)
	})
	mux.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// httprouter já preenche o cabeçalho Allow
		apiErrors.WriteError(w, apiErrors.ErrMethodNotAllowed, "Método "+req.Method+" não suportado", nil)
	})

	r := &Router{mux: mux}
	for _, opt := range opts {
		opt(r)
	}

	return *r
}

func (r Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// AddRoutes registra as rotas; o primeiro middleware da lista é o mais externo
func (r Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		handler := route.Handler
		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			handler = route.Middlewares[i](handler)
		}

		r.mux.Handler(route.Method, route.Path, handler)
	}
}
