// Package githubapitest provides an in-memory githubapi.Transport for tests.
package githubapitest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/temirov/libkeeper/internal/githubapi"
)

const (
	routeKeyTemplateConstant = "%s %s"
	notFoundTemplateConstant = "%s %s: %w"
)

// Route describes the canned answer for one method and path.
type Route struct {
	Body     string
	Response githubapi.Response
	Err      error
}

// Transport answers requests from registered routes and records every request it receives.
// Unregistered routes answer with githubapi.ErrNotFound.
type Transport struct {
	mutex    sync.Mutex
	routes   map[string]Route
	requests []githubapi.Request
}

// NewTransport creates a transport with the provided routes.
func NewTransport(routes map[string]Route) *Transport {
	registeredRoutes := make(map[string]Route, len(routes))
	for key, route := range routes {
		registeredRoutes[key] = route
	}
	return &Transport{routes: registeredRoutes}
}

// RouteKey builds the lookup key for a method and path.
func RouteKey(method string, path string) string {
	return fmt.Sprintf(routeKeyTemplateConstant, method, path)
}

// Handle registers or replaces a route.
func (transport *Transport) Handle(method string, path string, route Route) {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	transport.routes[RouteKey(method, path)] = route
}

// Do implements githubapi.Transport.
func (transport *Transport) Do(_ context.Context, request githubapi.Request, result any) (githubapi.Response, error) {
	transport.mutex.Lock()
	transport.requests = append(transport.requests, request)
	route, exists := transport.routes[RouteKey(request.Method, request.Path)]
	transport.mutex.Unlock()

	if !exists {
		return githubapi.Response{}, fmt.Errorf(notFoundTemplateConstant, request.Method, request.Path, githubapi.ErrNotFound)
	}
	if route.Err != nil {
		return route.Response, route.Err
	}
	if result != nil && len(route.Body) > 0 {
		if decodingError := json.Unmarshal([]byte(route.Body), result); decodingError != nil {
			return route.Response, decodingError
		}
	}
	return route.Response, nil
}

// Requests returns a copy of the recorded requests in arrival order.
func (transport *Transport) Requests() []githubapi.Request {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	recorded := make([]githubapi.Request, len(transport.requests))
	copy(recorded, transport.requests)
	return recorded
}

// RequestsFor returns the recorded requests that used the method.
func (transport *Transport) RequestsFor(method string) []githubapi.Request {
	matching := make([]githubapi.Request, 0)
	for _, request := range transport.Requests() {
		if request.Method == method {
			matching = append(matching, request)
		}
	}
	return matching
}
