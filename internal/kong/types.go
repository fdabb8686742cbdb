package kong

import (
	"encoding/json"
	"fmt"
)

// DefaultTimeout is the connect, write and read timeout, in milliseconds,
// sent with every service registration unless overridden.
const DefaultTimeout = 300000

// Timeouts are forwarded to Kong and govern gateway to upstream traffic.
// A zero field falls back to the client default.
type Timeouts struct {
	Connect int
	Write   int
	Read    int
}

// DefaultTimeouts returns DefaultTimeout for every field.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Connect: DefaultTimeout,
		Write:   DefaultTimeout,
		Read:    DefaultTimeout,
	}
}

func (t Timeouts) withDefaults(defaults Timeouts) Timeouts {
	if t.Connect == 0 {
		t.Connect = defaults.Connect
	}
	if t.Write == 0 {
		t.Write = defaults.Write
	}
	if t.Read == 0 {
		t.Read = defaults.Read
	}
	return t
}

// Service is an upstream registration on the gateway.
type Service struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	URL            string `json:"url,omitempty"`
	Protocol       string `json:"protocol,omitempty"`
	Host           string `json:"host,omitempty"`
	Port           int    `json:"port,omitempty"`
	Path           string `json:"path,omitempty"`
	ConnectTimeout int    `json:"connect_timeout,omitempty"`
	WriteTimeout   int    `json:"write_timeout,omitempty"`
	ReadTimeout    int    `json:"read_timeout,omitempty"`
}

// Upstream returns the service URL, rebuilding it from its parts when Kong
// only reports protocol, host, port and path.
func (s Service) Upstream() string {
	if s.URL != "" || s.Host == "" {
		return s.URL
	}
	protocol := s.Protocol
	if protocol == "" {
		protocol = "http"
	}
	upstream := fmt.Sprintf("%s://%s", protocol, s.Host)
	if s.Port != 0 {
		upstream += fmt.Sprintf(":%d", s.Port)
	}
	return upstream + s.Path
}

// RouteService is the service reference Kong embeds in route records.
type RouteService struct {
	ID string `json:"id"`
}

// Route is a path mapping exposed by the gateway.
type Route struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Paths     []string      `json:"paths"`
	StripPath bool          `json:"strip_path"`
	Service   *RouteService `json:"service,omitempty"`
}

// ServiceID returns the id of the owning service, or "" if the route has none.
func (r Route) ServiceID() string {
	if r.Service == nil {
		return ""
	}
	return r.Service.ID
}

type refKind int

const (
	refUnset refKind = iota
	refByID
	refByName
)

// ServiceRef binds a route to exactly one service, either by id or by name.
// The zero value references nothing and is rejected by every operation.
type ServiceRef struct {
	kind  refKind
	value string
}

// ServiceByID references a service by its gateway assigned id.
func ServiceByID(id string) ServiceRef {
	return ServiceRef{kind: refByID, value: id}
}

// ServiceByName references a service by its unique name.
func ServiceByName(name string) ServiceRef {
	return ServiceRef{kind: refByName, value: name}
}

// ParseServiceRef builds a ServiceRef from an optional id and an optional
// name, exactly one of which must be set.
func ParseServiceRef(id, name string) (ServiceRef, error) {
	switch {
	case id == "" && name == "":
		return ServiceRef{}, configurationError("'service id' and 'service name' are both empty, exactly one must be set")
	case id != "" && name != "":
		return ServiceRef{}, configurationError("'service id' and 'service name' are both set, exactly one must be set")
	case id != "":
		return ServiceByID(id), nil
	default:
		return ServiceByName(name), nil
	}
}

// Value is the id or name the reference carries.
func (r ServiceRef) Value() string {
	return r.value
}

// IsID reports whether the reference is by id.
func (r ServiceRef) IsID() bool {
	return r.kind == refByID
}

func (r ServiceRef) String() string {
	switch r.kind {
	case refByID:
		return "id:" + r.value
	case refByName:
		return "name:" + r.value
	default:
		return "<unset>"
	}
}

func (r ServiceRef) validate() error {
	if r.kind == refUnset || r.value == "" {
		return configurationError("service reference is not set")
	}
	return nil
}

func (r ServiceRef) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case refByID:
		return json.Marshal(map[string]string{"id": r.value})
	case refByName:
		return json.Marshal(map[string]string{"name": r.value})
	default:
		return nil, configurationError("service reference is not set")
	}
}

type servicePayload struct {
	Name           string `json:"name"`
	URL            string `json:"url"`
	ConnectTimeout int    `json:"connect_timeout"`
	WriteTimeout   int    `json:"write_timeout"`
	ReadTimeout    int    `json:"read_timeout"`
}

type routePayload struct {
	Paths     []string   `json:"paths"`
	StripPath bool       `json:"strip_path"`
	Service   ServiceRef `json:"service"`
}

type page[T any] struct {
	Data []T    `json:"data"`
	Next string `json:"next"`
}
