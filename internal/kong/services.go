package kong

import (
	"context"
	"net/http"
	"net/url"
)

// HealthCheckSuffix is appended to a service name to name its health check route.
const HealthCheckSuffix = "--health-check"

// ServiceRegistration describes a service upsert.
type ServiceRegistration struct {
	Name string
	URL  string
	// HealthCheckPath, if set, gets a route named "<Name>--health-check".
	HealthCheckPath string
	// Timeouts overrides the client defaults field by field.
	Timeouts Timeouts
}

// RegisterService creates or replaces the service keyed by name and, when a
// health check path is given, upserts a route for it bound to the returned
// service id.
func (c *Client) RegisterService(ctx context.Context, registration ServiceRegistration) (*Service, error) {
	if registration.Name == "" {
		return nil, configurationError("service name must be provided")
	}
	if registration.URL == "" {
		return nil, configurationError("service url must be provided for %q", registration.Name)
	}

	timeouts := registration.Timeouts.withDefaults(c.timeouts)
	payload := servicePayload{
		Name:           registration.Name,
		URL:            registration.URL,
		ConnectTimeout: timeouts.Connect,
		WriteTimeout:   timeouts.Write,
		ReadTimeout:    timeouts.Read,
	}

	service := &Service{}
	if err := c.do(ctx, http.MethodPut, "/services/{name}", "/services/"+url.PathEscape(registration.Name), payload, service); err != nil {
		return nil, err
	}
	c.logger.Debug("registered service", "name", service.Name, "id", service.ID)

	if registration.HealthCheckPath != "" {
		if _, err := c.upsertRoute(ctx, registration.Name+HealthCheckSuffix, routePayload{
			Paths:     []string{registration.HealthCheckPath},
			StripPath: false,
			Service:   ServiceByID(service.ID),
		}); err != nil {
			return nil, err
		}
	}

	return service, nil
}

// ListServices returns every service registered on the gateway.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	return listAll[Service](ctx, c, "/services", "/services")
}

// DeleteService removes a service by id. Kong refuses to delete a service
// that still has routes.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	if id == "" {
		return configurationError("service id must be provided")
	}
	return c.do(ctx, http.MethodDelete, "/services/{id}", "/services/"+url.PathEscape(id), nil, nil)
}
