package manifest

import (
	"context"
	"fmt"

	"github.com/murabei/pumpwood-kong/internal/kong"
)

// Suffixes of the auxiliary services and routes derived from a manifest name.
const (
	AuthStaticSuffix        = "--auth-static"
	AuthGUISuffix           = "--auth-gui"
	ReloadDBSuffix          = "--reloaddb"
	ConnectionDisposeSuffix = "--connection-dispose"
)

// Registrar is the subset of the gateway client a manifest needs.
type Registrar interface {
	RegisterService(ctx context.Context, registration kong.ServiceRegistration) (*kong.Service, error)
	RegisterRoute(ctx context.Context, registration kong.RouteRegistration) (*kong.Route, error)
	RegisterModelRoutes(ctx context.Context, routes kong.ModelRoutes) (*kong.Route, error)
}

// Result lists what Apply registered, in registration order.
type Result struct {
	Service  *kong.Service
	Services []*kong.Service
	Routes   []string
}

// Apply registers the manifest's service and everything hanging off it.
// Registration stops at the first failure; what was already registered stays.
func Apply(ctx context.Context, registrar Registrar, m *Manifest, endpointSuffix string) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}
	service, err := registrar.RegisterService(ctx, kong.ServiceRegistration{
		Name:            m.Name,
		URL:             m.URL,
		HealthCheckPath: m.HealthCheck,
		Timeouts:        m.timeouts(),
	})
	if err != nil {
		return nil, fmt.Errorf("registering service %q: %w", m.Name, err)
	}
	result.Service = service
	result.Services = append(result.Services, service)
	if m.HealthCheck != "" {
		result.Routes = append(result.Routes, m.Name+kong.HealthCheckSuffix)
	}

	if m.AuthStaticURL != "" {
		if err := applyAuxiliary(ctx, registrar, result, auxiliary{
			service:     m.Name + AuthStaticSuffix,
			url:         m.AuthStaticURL,
			route:       m.Name + AuthStaticSuffix,
			path:        fmt.Sprintf("/admin/%s/static/", m.Name),
			sibling:     m.Name + AuthGUISuffix,
			siblingPath: fmt.Sprintf("/admin/%s/gui/", m.Name),
			main:        service,
			timeouts:    m.timeouts(),
		}); err != nil {
			return result, err
		}
	}

	if m.ReloadDBURL != "" {
		if err := applyAuxiliary(ctx, registrar, result, auxiliary{
			service:     m.Name + ReloadDBSuffix,
			url:         m.ReloadDBURL,
			route:       m.Name + ReloadDBSuffix,
			path:        fmt.Sprintf("/reload-db/%s/", m.Name),
			sibling:     m.Name + ConnectionDisposeSuffix,
			siblingPath: fmt.Sprintf("/pool-conections-dispose/%s/", m.Name),
			main:        service,
			timeouts:    m.timeouts(),
		}); err != nil {
			return result, err
		}
	}

	route, err := registrar.RegisterModelRoutes(ctx, kong.ModelRoutes{
		Service:        kong.ServiceByID(service.ID),
		Models:         m.Models,
		EndpointSuffix: endpointSuffix,
		RouteName:      m.Name + kong.EndpointsSuffix,
	})
	if err != nil {
		return result, fmt.Errorf("registering model routes for %q: %w", m.Name, err)
	}
	if route != nil {
		result.Routes = append(result.Routes, route.Name)
	}

	return result, nil
}

// auxiliary is a side service with one route of its own and one sibling
// route that stays on the main service.
type auxiliary struct {
	service     string
	url         string
	route       string
	path        string
	sibling     string
	siblingPath string
	main        *kong.Service
	timeouts    kong.Timeouts
}

func applyAuxiliary(ctx context.Context, registrar Registrar, result *Result, aux auxiliary) error {
	service, err := registrar.RegisterService(ctx, kong.ServiceRegistration{
		Name:     aux.service,
		URL:      aux.url,
		Timeouts: aux.timeouts,
	})
	if err != nil {
		return fmt.Errorf("registering service %q: %w", aux.service, err)
	}
	result.Services = append(result.Services, service)

	if _, err := registrar.RegisterRoute(ctx, kong.RouteRegistration{
		Name:    aux.route,
		Path:    aux.path,
		Service: kong.ServiceByID(service.ID),
	}); err != nil {
		return fmt.Errorf("registering route %q: %w", aux.route, err)
	}
	result.Routes = append(result.Routes, aux.route)

	if _, err := registrar.RegisterRoute(ctx, kong.RouteRegistration{
		Name:    aux.sibling,
		Path:    aux.siblingPath,
		Service: kong.ServiceByID(aux.main.ID),
	}); err != nil {
		return fmt.Errorf("registering route %q: %w", aux.sibling, err)
	}
	result.Routes = append(result.Routes, aux.sibling)
	return nil
}
