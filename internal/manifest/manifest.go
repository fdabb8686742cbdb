package manifest

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/murabei/pumpwood-kong/internal/kong"
)

var validate = validator.New()

// Timeouts are in milliseconds; zero means the client default.
type Timeouts struct {
	Connect int `yaml:"connect" validate:"gte=0"`
	Write   int `yaml:"write" validate:"gte=0"`
	Read    int `yaml:"read" validate:"gte=0"`
}

// Manifest declares a service together with the auxiliary services and
// routes registered alongside it.
type Manifest struct {
	Name          string    `yaml:"name" validate:"required,excludesall=/"`
	URL           string    `yaml:"url" validate:"required,url"`
	HealthCheck   string    `yaml:"healthCheck" validate:"omitempty,startswith=/"`
	AuthStaticURL string    `yaml:"authStaticURL" validate:"omitempty,url"`
	ReloadDBURL   string    `yaml:"reloadDBURL" validate:"omitempty,url"`
	Timeouts      *Timeouts `yaml:"timeouts"`
	Models        []string  `yaml:"models"`
}

func (m *Manifest) timeouts() kong.Timeouts {
	if m.Timeouts == nil {
		return kong.Timeouts{}
	}
	return kong.Timeouts{
		Connect: m.Timeouts.Connect,
		Write:   m.Timeouts.Write,
		Read:    m.Timeouts.Read,
	}
}

// Load reads a manifest from a YAML or JSON file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a manifest, rejecting unknown fields.
func Parse(data []byte) (*Manifest, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	manifest := &Manifest{}
	if err := decoder.Decode(manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return manifest, nil
}

// Validate reports every problem with the manifest at once.
func (m *Manifest) Validate() error {
	var errs multierror.Error

	if err := validate.Struct(m); err != nil {
		errs.Errors = append(errs.Errors, fieldErrors(err)...)
	}

	seen := map[string]int{}
	for i, model := range m.Models {
		if strings.TrimSpace(model) == "" {
			errs.Errors = append(errs.Errors, fmt.Errorf("models.%d: model name must not be empty", i))
			continue
		}
		key := strings.ToLower(model)
		if index, exists := seen[key]; exists {
			errs.Errors = append(errs.Errors, fmt.Errorf("models.%d: %q conflicts with models.%d", i, model, index))
		} else {
			seen[key] = i
		}
	}

	return errs.ErrorOrNil()
}

func fieldErrors(err error) []error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}

	errs := []error{}
	for _, fieldErr := range validationErrors {
		errs = append(errs, fmt.Errorf("%s: %s", fieldPath(fieldErr.Namespace()), validationMessage(fieldErr)))
	}
	return errs
}

// fieldPath turns "Manifest.Timeouts.Read" into "timeouts.read".
func fieldPath(namespace string) string {
	segments := strings.Split(namespace, ".")[1:]
	for i, segment := range segments {
		segments[i] = fieldName(segment)
	}
	return strings.Join(segments, ".")
}

func fieldName(field string) string {
	switch field {
	case "URL":
		return "url"
	case "AuthStaticURL":
		return "authStaticURL"
	case "ReloadDBURL":
		return "reloadDBURL"
	default:
		return strings.ToLower(field[:1]) + field[1:]
	}
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "url":
		return "must be a valid URL"
	case "startswith":
		return fmt.Sprintf("must start with %q", e.Param())
	case "excludesall":
		return "must not contain slashes"
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}
