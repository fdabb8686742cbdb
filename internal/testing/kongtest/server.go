package kongtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// Service mirrors the service record Kong returns. Like Kong, the fake splits
// the upstream url into its parts.
type Service struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Protocol       string `json:"protocol"`
	Host           string `json:"host"`
	Port           int    `json:"port"`
	Path           string `json:"path,omitempty"`
	ConnectTimeout int    `json:"connect_timeout"`
	WriteTimeout   int    `json:"write_timeout"`
	ReadTimeout    int    `json:"read_timeout"`
}

type ServiceReference struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Route struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Paths     []string          `json:"paths"`
	StripPath bool              `json:"strip_path"`
	Service   *ServiceReference `json:"service"`
}

// Request is a request the fake received, in arrival order.
type Request struct {
	Method string
	Path   string
	Body   string
}

type failure struct {
	status int
	body   string
}

// Server is an in-memory Kong admin API.
type Server struct {
	*httptest.Server

	mutex             sync.Mutex
	pageSize          int
	version           string
	databaseReachable bool
	services          []*Service
	routes            []*Route
	requests          []Request
	failures          map[string]failure
}

func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		pageSize:          100,
		version:           "3.4.1",
		databaseReachable: true,
		failures:          make(map[string]failure),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// SetPageSize bounds collection responses; further pages are linked with
// "next" like Kong does.
func (s *Server) SetPageSize(size int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.pageSize = size
}

// SetVersion sets the version reported by GET /.
func (s *Server) SetVersion(version string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.version = version
}

// SetDatabaseReachable sets what GET /status reports.
func (s *Server) SetDatabaseReachable(reachable bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.databaseReachable = reachable
}

// Fail makes every request matching method and path answer with status and body.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []Request {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]Request(nil), s.requests...)
}

// RequestsMatching returns the received requests with the given method.
func (s *Server) RequestsMatching(method string) []Request {
	var matching []Request
	for _, request := range s.Requests() {
		if request.Method == method {
			matching = append(matching, request)
		}
	}
	return matching
}

// AddService seeds a service without going through the API.
func (s *Server) AddService(name, upstream string) Service {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	service := &Service{ID: uuid.New().String(), Name: name}
	setUpstream(service, upstream)
	s.services = append(s.services, service)
	return *service
}

// AddRoute seeds a route without going through the API. The service id is
// not checked, so dangling routes can be seeded.
func (s *Server) AddRoute(name, serviceID string, paths ...string) Route {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	route := &Route{ID: uuid.New().String(), Name: name, Paths: paths, Service: &ServiceReference{ID: serviceID}}
	s.routes = append(s.routes, route)
	return *route
}

// Services returns a snapshot of the stored services.
func (s *Server) Services() []Service {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	services := []Service{}
	for _, service := range s.services {
		services = append(services, *service)
	}
	return services
}

// Routes returns a snapshot of the stored routes.
func (s *Server) Routes() []Route {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	routes := []Route{}
	for _, route := range s.routes {
		routes = append(routes, *route)
	}
	return routes
}

// ServiceByName returns the stored service with name, if any.
func (s *Server) ServiceByName(name string) (Service, bool) {
	for _, service := range s.Services() {
		if service.Name == name {
			return service, true
		}
	}
	return Service{}, false
}

// RouteByName returns the stored route with name, if any.
func (s *Server) RouteByName(name string) (Route, bool) {
	for _, route := range s.Routes() {
		if route.Name == name {
			return route, true
		}
	}
	return Route{}, false
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	if failure, ok := s.failures[r.Method+" "+r.URL.Path]; ok {
		w.WriteHeader(failure.status)
		_, _ = w.Write([]byte(failure.body))
		return
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		writeJSON(w, http.StatusOK, map[string]string{"version": s.version, "hostname": "kongtest", "tagline": "Welcome to kong"})
	case r.Method == http.MethodGet && r.URL.Path == "/status":
		writeJSON(w, http.StatusOK, map[string]interface{}{"database": map[string]bool{"reachable": s.databaseReachable}})
	case r.Method == http.MethodGet && r.URL.Path == "/services":
		writePage(w, r, "/services", s.services, s.pageSize)
	case r.Method == http.MethodGet && r.URL.Path == "/routes":
		writePage(w, r, "/routes", s.routes, s.pageSize)
	case r.Method == http.MethodGet && len(segments) == 3 && segments[0] == "services" && segments[2] == "routes":
		writePage(w, r, r.URL.Path, s.routesOf(segments[1]), s.pageSize)
	case r.Method == http.MethodPut && len(segments) == 2 && segments[0] == "services":
		s.putService(w, segments[1], body)
	case r.Method == http.MethodPut && len(segments) == 2 && segments[0] == "routes":
		s.putRoute(w, segments[1], body)
	case r.Method == http.MethodDelete && len(segments) == 2 && segments[0] == "services":
		s.deleteService(w, segments[1])
	case r.Method == http.MethodDelete && len(segments) == 2 && segments[0] == "routes":
		s.deleteRoute(w, segments[1])
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

func (s *Server) putService(w http.ResponseWriter, name string, body []byte) {
	payload := struct {
		Name           string `json:"name"`
		URL            string `json:"url"`
		ConnectTimeout int    `json:"connect_timeout"`
		WriteTimeout   int    `json:"write_timeout"`
		ReadTimeout    int    `json:"read_timeout"`
	}{}
	if err := json.Unmarshal(body, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Cannot parse JSON body"})
		return
	}
	if payload.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "schema violation (host: required field missing)"})
		return
	}

	service := s.findService(name)
	if service == nil {
		service = &Service{ID: uuid.New().String()}
		s.services = append(s.services, service)
	}
	service.Name = name
	service.ConnectTimeout = payload.ConnectTimeout
	service.WriteTimeout = payload.WriteTimeout
	service.ReadTimeout = payload.ReadTimeout
	setUpstream(service, payload.URL)

	writeJSON(w, http.StatusOK, service)
}

func (s *Server) putRoute(w http.ResponseWriter, name string, body []byte) {
	payload := struct {
		Paths     []string          `json:"paths"`
		StripPath bool              `json:"strip_path"`
		Service   *ServiceReference `json:"service"`
	}{}
	if err := json.Unmarshal(body, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Cannot parse JSON body"})
		return
	}

	var service *Service
	if payload.Service != nil {
		if payload.Service.ID != "" {
			service = s.findService(payload.Service.ID)
		} else {
			service = s.findService(payload.Service.Name)
		}
	}
	if service == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "schema violation (service: does not exist)"})
		return
	}

	route := s.findRoute(name)
	if route == nil {
		route = &Route{ID: uuid.New().String()}
		s.routes = append(s.routes, route)
	}
	route.Name = name
	route.Paths = payload.Paths
	route.StripPath = payload.StripPath
	route.Service = &ServiceReference{ID: service.ID}

	writeJSON(w, http.StatusOK, route)
}

func (s *Server) deleteService(w http.ResponseWriter, idOrName string) {
	service := s.findService(idOrName)
	if service == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if len(s.routesOf(service.ID)) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "an existing 'routes' entity references this 'services' entity"})
		return
	}

	for i, candidate := range s.services {
		if candidate == service {
			s.services = append(s.services[:i], s.services[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteRoute(w http.ResponseWriter, idOrName string) {
	for i, route := range s.routes {
		if route.ID == idOrName || route.Name == idOrName {
			s.routes = append(s.routes[:i], s.routes[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) findService(idOrName string) *Service {
	for _, service := range s.services {
		if service.ID == idOrName || service.Name == idOrName {
			return service
		}
	}
	return nil
}

func (s *Server) findRoute(idOrName string) *Route {
	for _, route := range s.routes {
		if route.ID == idOrName || route.Name == idOrName {
			return route
		}
	}
	return nil
}

func (s *Server) routesOf(serviceID string) []*Route {
	routes := []*Route{}
	for _, route := range s.routes {
		if route.Service != nil && route.Service.ID == serviceID {
			routes = append(routes, route)
		}
	}
	return routes
}

func setUpstream(service *Service, upstream string) {
	parsed, err := url.Parse(upstream)
	if err != nil {
		service.Host = upstream
		return
	}
	service.Protocol = parsed.Scheme
	service.Host = parsed.Hostname()
	service.Path = parsed.Path
	service.Port = 80
	if parsed.Scheme == "https" {
		service.Port = 443
	}
	if port, err := strconv.Atoi(parsed.Port()); err == nil {
		service.Port = port
	}
}

func writePage[T any](w http.ResponseWriter, r *http.Request, path string, items []T, pageSize int) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if pageSize > 0 && offset+pageSize < end {
		end = offset + pageSize
	}

	var next *string
	if end < len(items) {
		link := fmt.Sprintf("%s?offset=%d", path, end)
		next = &link
	}

	writeJSON(w, http.StatusOK, struct {
		Data []T     `json:"data"`
		Next *string `json:"next"`
	}{Data: append([]T{}, items[offset:end]...), Next: next})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
