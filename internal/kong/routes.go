package kong

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultModelPathPrefix prefixes every model route path.
	DefaultModelPathPrefix = "/rest/"
	// EndpointsSuffix is appended to a service name to name its model route.
	EndpointsSuffix = "--endpoints"
)

// RouteRegistration describes a single path route upsert.
type RouteRegistration struct {
	Name      string
	Path      string
	Service   ServiceRef
	StripPath bool
}

// RegisterRoute creates or replaces the route keyed by name.
func (c *Client) RegisterRoute(ctx context.Context, registration RouteRegistration) (*Route, error) {
	if err := registration.Service.validate(); err != nil {
		return nil, err
	}
	if registration.Name == "" {
		return nil, configurationError("route name must be provided")
	}
	if registration.Path == "" {
		return nil, configurationError("route path must be provided for %q", registration.Name)
	}

	return c.upsertRoute(ctx, registration.Name, routePayload{
		Paths:     []string{registration.Path},
		StripPath: registration.StripPath,
		Service:   registration.Service,
	})
}

// ModelRoutes describes the single route that exposes a service's models.
type ModelRoutes struct {
	Service ServiceRef
	// Models are turned into paths in the order given.
	Models []string
	// PathPrefix defaults to DefaultModelPathPrefix.
	PathPrefix string
	// EndpointSuffix is lowercased and inserted between the prefix and
	// every model name.
	EndpointSuffix string
	// RouteName defaults to "<service>--endpoints".
	RouteName string
}

// Paths returns the route paths for the configured models.
func (m ModelRoutes) Paths() []string {
	prefix := m.PathPrefix
	if prefix == "" {
		prefix = DefaultModelPathPrefix
	}
	suffix := strings.ToLower(m.EndpointSuffix)

	paths := make([]string, 0, len(m.Models))
	for _, model := range m.Models {
		paths = append(paths, prefix+suffix+strings.ToLower(model)+"/")
	}
	return paths
}

// RegisterModelRoutes upserts one route carrying a path per model. Nothing is
// sent when there are no models, in which case the returned route is nil.
func (c *Client) RegisterModelRoutes(ctx context.Context, routes ModelRoutes) (*Route, error) {
	if err := routes.Service.validate(); err != nil {
		return nil, err
	}
	if len(routes.Models) == 0 {
		return nil, nil
	}

	name := routes.RouteName
	if name == "" {
		name = routes.Service.Value() + EndpointsSuffix
	}

	return c.upsertRoute(ctx, name, routePayload{
		Paths:     routes.Paths(),
		StripPath: false,
		Service:   routes.Service,
	})
}

func (c *Client) upsertRoute(ctx context.Context, name string, payload routePayload) (*Route, error) {
	route := &Route{}
	if err := c.do(ctx, http.MethodPut, "/routes/{name}", "/routes/"+url.PathEscape(name), payload, route); err != nil {
		return nil, err
	}
	c.logger.Debug("registered route", "name", name, "paths", payload.Paths, "service", payload.Service.String())
	return route, nil
}

// ListRoutes returns every route registered on the gateway.
func (c *Client) ListRoutes(ctx context.Context) ([]Route, error) {
	return listAll[Route](ctx, c, "/routes", "/routes")
}

// ListServiceRoutes returns the routes attached to a service id.
func (c *Client) ListServiceRoutes(ctx context.Context, serviceID string) ([]Route, error) {
	if serviceID == "" {
		return nil, configurationError("service id must be provided")
	}
	return listAll[Route](ctx, c, "/services/{id}/routes", "/services/"+url.PathEscape(serviceID)+"/routes")
}

// DeleteRoute removes a route by id.
func (c *Client) DeleteRoute(ctx context.Context, id string) error {
	if id == "" {
		return configurationError("route id must be provided")
	}
	return c.do(ctx, http.MethodDelete, "/routes/{id}", "/routes/"+url.PathEscape(id), nil, nil)
}
