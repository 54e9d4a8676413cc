// Package router mounts the per-domain route groups under the versioned API
// prefix.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Mounter attaches its routes to the API group and reports what it mounted
type Mounter interface {
	Mount(api *gin.RouterGroup) []RouteInfo
}

// RouteInfo describes one mounted route
type RouteInfo struct {
	Group  string
	Method string
	Path   string
}

// Router builds /api/<version> on a gin engine
type Router struct {
	engine     *gin.Engine
	version    string
	middleware []gin.HandlerFunc
	groups     []Mounter
	log        *zap.Logger
}

// Option configures a Router
type Option func(*Router)

// WithVersion sets the version segment of the prefix. Defaults to v1.
func WithVersion(version string) Option {
	return func(r *Router) { r.version = version }
}

// WithAPIMiddleware adds middleware that runs for API routes only. Probes,
// metrics and docs mounted directly on the engine skip it.
func WithAPIMiddleware(mw ...gin.HandlerFunc) Option {
	return func(r *Router) { r.middleware = append(r.middleware, mw...) }
}

// WithLogger logs the mounted routes at debug
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) { r.log = l }
}

// New creates a Router on engine
func New(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{engine: engine, version: "v1", log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add queues groups for Setup
func (r *Router) Add(groups ...Mounter) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// Prefix is the path every API route starts with
func (r *Router) Prefix() string {
	return "/api/" + r.version
}

// Setup mounts every queued group and returns the resulting routes
func (r *Router) Setup() []RouteInfo {
	api := r.engine.Group(r.Prefix(), r.middleware...)
	var mounted []RouteInfo
	for _, g := range r.groups {
		mounted = append(mounted, g.Mount(api)...)
	}
	for _, ri := range mounted {
		r.log.Debug("Route mounted",
			zap.String("group", ri.Group),
			zap.String("method", ri.Method),
			zap.String("path", ri.Path),
		)
	}
	return mounted
}

// Group is the routes of one domain under a shared prefix
type Group struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewGroup creates a group mounted at prefix. mw runs before every route of
// the group.
func NewGroup(name, prefix string, mw ...gin.HandlerFunc) *Group {
	return &Group{name: name, prefix: prefix, middleware: mw}
}

func (g *Group) handle(method, p string, handlers []gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: p, handlers: handlers})
	return g
}

// GET adds a GET route
func (g *Group) GET(p string, handlers ...gin.HandlerFunc) *Group {
	return g.handle(http.MethodGet, p, handlers)
}

// POST adds a POST route
func (g *Group) POST(p string, handlers ...gin.HandlerFunc) *Group {
	return g.handle(http.MethodPost, p, handlers)
}

// PUT adds a PUT route
func (g *Group) PUT(p string, handlers ...gin.HandlerFunc) *Group {
	return g.handle(http.MethodPut, p, handlers)
}

// Mount implements Mounter
func (g *Group) Mount(api *gin.RouterGroup) []RouteInfo {
	rg := api.Group(g.prefix, g.middleware...)
	out := make([]RouteInfo, 0, len(g.routes))
	for _, rt := range g.routes {
		rg.Handle(rt.method, rt.path, rt.handlers...)
		out = append(out, RouteInfo{
			Group:  g.name,
			Method: rt.method,
			Path:   joinPath(rg.BasePath(), rt.path),
		})
	}
	return out
}

func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	return path.Join(base, rel)
}
