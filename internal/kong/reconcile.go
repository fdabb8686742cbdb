package kong

import (
	"context"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ProtectedServicePrefixes are never picked up by a bulk delete without
// explicit ids. They back test databases and reload jobs.
var ProtectedServicePrefixes = []string{"test", "reload-db"}

// RouteIndex maps a service name to the sorted paths routed to it.
type RouteIndex map[string][]string

// Names returns the service names in the index, sorted.
func (i RouteIndex) Names() []string {
	names := maps.Keys(i)
	slices.Sort(names)
	return names
}

// BuildRouteIndex joins routes to their owning services by id. Every service
// gets an entry, even without routes. A route whose service is not in
// services fails the whole join.
func BuildRouteIndex(services []Service, routes []Route) (RouteIndex, error) {
	names := make(map[string]string, len(services))
	for _, service := range services {
		names[service.ID] = service.Name
	}

	index := RouteIndex{}
	for _, route := range routes {
		name, ok := names[route.ServiceID()]
		if !ok {
			return nil, &ReferentialIntegrityError{RouteID: route.ID, ServiceID: route.ServiceID()}
		}
		index[name] = append(index[name], route.Paths...)
	}

	for _, paths := range index {
		slices.Sort(paths)
	}

	for _, service := range services {
		if _, ok := index[service.Name]; !ok {
			index[service.Name] = []string{}
		}
	}
	return index, nil
}

// ListAllRoutes fetches services and routes and joins them into a RouteIndex.
func (c *Client) ListAllRoutes(ctx context.Context) (RouteIndex, error) {
	services, err := c.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	routes, err := c.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRouteIndex(services, routes)
}

// IsProtectedService reports whether a service name starts with one of
// ProtectedServicePrefixes.
func IsProtectedService(name string) bool {
	for _, prefix := range ProtectedServicePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// DeletableServices filters out protected services, keeping order.
func DeletableServices(services []Service) []Service {
	deletable := []Service{}
	for _, service := range services {
		if !IsProtectedService(service.Name) {
			deletable = append(deletable, service)
		}
	}
	return deletable
}

// DeleteRoutesAndService deletes every route of each service and then the
// service itself, one service at a time. With nil ids every service that is
// not protected is deleted. The first failure aborts the run and nothing
// already deleted is restored.
func (c *Client) DeleteRoutesAndService(ctx context.Context, serviceIDs []string) error {
	if serviceIDs == nil {
		services, err := c.ListServices(ctx)
		if err != nil {
			return err
		}
		for _, service := range DeletableServices(services) {
			serviceIDs = append(serviceIDs, service.ID)
		}
		c.logger.Info("deleting unprotected services", "count", len(serviceIDs), "skipped", len(services)-len(serviceIDs))
	}

	for _, serviceID := range serviceIDs {
		routes, err := c.ListServiceRoutes(ctx, serviceID)
		if err != nil {
			return err
		}
		for _, route := range routes {
			if err := c.DeleteRoute(ctx, route.ID); err != nil {
				return err
			}
			c.logger.Debug("deleted route", "id", route.ID, "name", route.Name, "service", serviceID)
		}
		if err := c.DeleteService(ctx, serviceID); err != nil {
			return err
		}
		c.logger.Info("deleted service", "id", serviceID, "routes", len(routes))
	}
	return nil
}
