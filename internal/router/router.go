package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// maxRedirects bounds redirect chains followed by [Table.Resolve].
const maxRedirects = 8

var (
	// ErrNotFound is returned when no route matches a path.
	ErrNotFound = errors.New("no route for path")

	// ErrRedirectLoop is returned when redirects do not reach a feature unit.
	ErrRedirectLoop = errors.New("redirect loop")
)

// Loader builds the handler of a [FeatureUnit].
type Loader func() (http.Handler, error)

// FeatureUnit is an independently loadable bundle of handlers mounted under
// a route path. Its loader runs once, on first use.
type FeatureUnit struct {
	name   string
	loader Loader

	once    sync.Once
	handler http.Handler
	err     error
}

// NewFeatureUnit creates a [FeatureUnit] named name.
func NewFeatureUnit(name string, loader Loader) *FeatureUnit {
	return &FeatureUnit{name: name, loader: loader}
}

// Name returns the unit's name.
func (u *FeatureUnit) Name() string {
	return u.name
}

// Load runs the loader on first call and returns its cached result after.
func (u *FeatureUnit) Load() (http.Handler, error) {
	u.once.Do(func() {
		if u.loader == nil {
			u.err = fmt.Errorf("feature unit %q has no loader", u.name)
			return
		}
		u.handler, u.err = u.loader()
		if u.err == nil && u.handler == nil {
			u.err = fmt.Errorf("feature unit %q loaded a nil handler", u.name)
		}
	})
	return u.handler, u.err
}

// Route maps a path to either a feature unit or a redirect.
type Route struct {
	// Path is the route path without leading or trailing slashes.
	// The empty path is the application root.
	Path string

	// RedirectTo, if set, is the absolute path the route redirects to.
	RedirectTo string

	// Unit is the feature unit served under Path. Nil for redirects.
	Unit *FeatureUnit
}

// Table is a static mapping of route paths to feature units.
type Table struct {
	routes []Route
	byPath map[string]Route
	logger *slog.Logger
}

// New builds a [Table] from routes. Paths must be unique, and each route
// must either redirect or have a unit.
func New(logger *slog.Logger, routes ...Route) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Table{byPath: make(map[string]Route, len(routes)), logger: logger}
	for i, r := range routes {
		r.Path = normalize(r.Path)
		if _, dup := t.byPath[r.Path]; dup {
			return nil, fmt.Errorf("routes[%d]: duplicate path %q", i, r.Path)
		}
		if (r.RedirectTo == "") == (r.Unit == nil) {
			return nil, fmt.Errorf("routes[%d] (%q): exactly one of redirect or unit is required", i, r.Path)
		}
		t.routes = append(t.routes, r)
		t.byPath[r.Path] = r
	}
	return t, nil
}

// Default builds the application route table: the root redirects to
// /welcome, and welcome and asset serve their units.
func Default(logger *slog.Logger, welcome, asset *FeatureUnit) (*Table, error) {
	return New(logger,
		Route{Path: "", RedirectTo: "/welcome"},
		Route{Path: "welcome", Unit: welcome},
		Route{Path: "asset", Unit: asset},
	)
}

// Routes returns a copy of the table's routes in declaration order.
func (t *Table) Routes() []Route {
	cp := make([]Route, len(t.routes))
	copy(cp, t.routes)
	return cp
}

// Resolve returns the feature unit that navigating to path ends up on,
// following redirects. Only the first path segment is matched.
func (t *Table) Resolve(path string) (*FeatureUnit, error) {
	current := firstSegment(path)
	for i := 0; i <= maxRedirects; i++ {
		r, ok := t.byPath[current]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, current)
		}
		if r.Unit != nil {
			return r.Unit, nil
		}
		current = firstSegment(r.RedirectTo)
	}
	return nil, fmt.Errorf("%w starting at %q", ErrRedirectLoop, firstSegment(path))
}

// Mount registers the table on r. Redirect routes answer GET and HEAD with
// 302 Found; feature units are mounted under "/<path>" with the prefix
// stripped, and loaded on their first request.
func (t *Table) Mount(r chi.Router) {
	for _, route := range t.routes {
		pattern := "/" + route.Path

		if route.RedirectTo != "" {
			target := route.RedirectTo
			redirect := func(w http.ResponseWriter, req *http.Request) {
				http.Redirect(w, req, target, http.StatusFound)
			}
			r.MethodFunc(http.MethodGet, pattern, redirect)
			r.MethodFunc(http.MethodHead, pattern, redirect)
			continue
		}

		unit := route.Unit
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			h, err := unit.Load()
			if err != nil {
				t.logger.Error("feature unit failed to load", "unit", unit.Name(), "error", err)
				http.Error(w, "Feature unavailable", http.StatusInternalServerError)
				return
			}
			h.ServeHTTP(w, req)
		})
		r.Mount(pattern, http.StripPrefix(pattern, handler))
	}
}

func normalize(path string) string {
	return strings.Trim(path, "/")
}

func firstSegment(path string) string {
	path = normalize(path)
	if i := strings.IndexByte(path, '/'); i != -1 {
		return path[:i]
	}
	return path
}
