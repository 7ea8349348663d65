package dataapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/tournament-data/internal/usecase"
)

type call struct {
	params map[string]string
	query  url.Values
	body   any
}

func (c call) id() (int64, error) {
	raw := c.params["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return id, nil
}

type handlerFunc func(ctx context.Context, c call) (any, error)

type route struct {
	method  string
	pattern string
	handle  handlerFunc
}

type compiledRoute struct {
	method   string
	pattern  string
	segments []string
	handle   handlerFunc
}

type routeTable struct {
	routes []compiledRoute
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// compileRoutes validates the table up front. Patterns are absolute paths whose
// segments are literals or a {name} placeholder. Two routes with the same
// method and shape are rejected, as is a literal route registered after a
// placeholder route that would shadow it.
func compileRoutes(routes []route) (routeTable, error) {
	table := routeTable{routes: make([]compiledRoute, 0, len(routes))}
	seen := make(map[string]string, len(routes))

	for _, r := range routes {
		if !allowedMethods[r.method] {
			return routeTable{}, fmt.Errorf("%w: route %s %s: unsupported method", usecase.ErrConfiguration, r.method, r.pattern)
		}
		if r.handle == nil {
			return routeTable{}, fmt.Errorf("%w: route %s %s: missing handler", usecase.ErrConfiguration, r.method, r.pattern)
		}
		segments, err := parsePattern(r.pattern)
		if err != nil {
			return routeTable{}, fmt.Errorf("%w: route %s %s: %v", usecase.ErrConfiguration, r.method, r.pattern, err)
		}

		shape := r.method + " " + shapeOf(segments)
		if prev, dup := seen[shape]; dup {
			return routeTable{}, fmt.Errorf("%w: route %s %s duplicates %s", usecase.ErrConfiguration, r.method, r.pattern, prev)
		}
		seen[shape] = r.pattern

		for _, existing := range table.routes {
			if existing.method == r.method && matchSegments(existing.segments, segments) != nil {
				return routeTable{}, fmt.Errorf("%w: route %s %s is shadowed by %s", usecase.ErrConfiguration, r.method, r.pattern, existing.pattern)
			}
		}

		table.routes = append(table.routes, compiledRoute{
			method:   r.method,
			pattern:  r.pattern,
			segments: segments,
			handle:   r.handle,
		})
	}
	return table, nil
}

func (t routeTable) dispatch(ctx context.Context, method, rawPath string, body any) (any, error) {
	u, err := url.Parse(strings.TrimSpace(rawPath))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid path %q", usecase.ErrInvalidInput, rawPath)
	}
	segments := splitPath(u.Path)

	for _, r := range t.routes {
		if r.method != method {
			continue
		}
		params := matchSegments(r.segments, segments)
		if params == nil {
			continue
		}
		return r.handle(ctx, call{params: params, query: u.Query(), body: body})
	}
	return nil, fmt.Errorf("%w: %s %s", usecase.ErrUnsupportedOperation, method, u.Path)
}

func parsePattern(pattern string) ([]string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("pattern must start with /")
	}
	segments := splitPath(pattern)
	if len(segments) == 0 {
		return nil, fmt.Errorf("pattern is empty")
	}
	names := map[string]bool{}
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("empty segment")
		}
		if strings.ContainsAny(s, "{}") {
			name, ok := placeholder(s)
			if !ok || name == "" {
				return nil, fmt.Errorf("malformed placeholder %q", s)
			}
			if names[name] {
				return nil, fmt.Errorf("placeholder %q repeated", name)
			}
			names[name] = true
		}
	}
	return segments, nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func placeholder(segment string) (string, bool) {
	if len(segment) < 2 || segment[0] != '{' || segment[len(segment)-1] != '}' {
		return "", false
	}
	name := segment[1 : len(segment)-1]
	if strings.ContainsAny(name, "{}") {
		return "", false
	}
	return name, true
}

func shapeOf(segments []string) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		if _, ok := placeholder(s); ok {
			parts[i] = "*"
			continue
		}
		parts[i] = s
	}
	return "/" + strings.Join(parts, "/")
}

// matchSegments returns the placeholder values when path fits pattern, or nil.
// A placeholder in path (when checking for shadowing) is matched literally.
func matchSegments(pattern, path []string) map[string]string {
	if len(pattern) != len(path) {
		return nil
	}
	params := map[string]string{}
	for i, s := range pattern {
		if name, ok := placeholder(s); ok {
			params[name] = path[i]
			continue
		}
		if s != path[i] {
			return nil
		}
	}
	return params
}
