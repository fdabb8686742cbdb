package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"github.com/murabei/pumpwood-kong/internal/kong"
)

const authManifest = `
name: pumpwood-auth-app
url: http://pumpwood-auth-app:5000/
healthCheck: /health-check/pumpwood-auth-app/
authStaticURL: http://pumpwood-auth-static:80/
reloadDBURL: http://test-db-pumpwood-auth:5000/
timeouts:
  read: 1000
models:
  - User
  - Group
`

func TestParse_YAML(t *testing.T) {
	t.Parallel()

	manifest, err := Parse([]byte(authManifest))
	require.NoError(t, err)
	require.Equal(t, "pumpwood-auth-app", manifest.Name)
	require.Equal(t, "http://pumpwood-auth-app:5000/", manifest.URL)
	require.Equal(t, "/health-check/pumpwood-auth-app/", manifest.HealthCheck)
	require.Equal(t, "http://pumpwood-auth-static:80/", manifest.AuthStaticURL)
	require.Equal(t, "http://test-db-pumpwood-auth:5000/", manifest.ReloadDBURL)
	require.Equal(t, []string{"User", "Group"}, manifest.Models)
	require.Equal(t, kong.Timeouts{Read: 1000}, manifest.timeouts())
	require.NoError(t, manifest.Validate())
}

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	manifest, err := Parse([]byte(`{"name": "svc", "url": "http://svc:80", "models": ["A"]}`))
	require.NoError(t, err)
	require.Equal(t, "svc", manifest.Name)
	require.Equal(t, []string{"A"}, manifest.Models)
	require.Equal(t, kong.Timeouts{}, manifest.timeouts())
}

func TestParse_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("name: svc\nurl: http://svc\nhealthcheck: /health/\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(authManifest), 0600))

	manifest, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "pumpwood-auth-app", manifest.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name     string
		manifest Manifest
		errors   []string
	}{
		{
			name:     "minimal",
			manifest: Manifest{Name: "svc", URL: "http://svc"},
		},
		{
			name:     "missing fields",
			manifest: Manifest{},
			errors: []string{
				"name: field is required",
				"url: field is required",
			},
		},
		{
			name: "invalid fields",
			manifest: Manifest{
				Name:          "a/b",
				URL:           "not a url",
				HealthCheck:   "health/",
				AuthStaticURL: "static",
				Timeouts:      &Timeouts{Read: -1},
			},
			errors: []string{
				"name: must not contain slashes",
				"url: must be a valid URL",
				`healthCheck: must start with "/"`,
				"authStaticURL: must be a valid URL",
				"timeouts.read: must be >= 0",
			},
		},
		{
			name:     "models",
			manifest: Manifest{Name: "svc", URL: "http://svc", Models: []string{"User", " ", "user"}},
			errors: []string{
				"models.1: model name must not be empty",
				`models.2: "user" conflicts with models.0`,
			},
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.manifest.Validate()
			if len(tt.errors) == 0 {
				require.NoError(t, err)
				return
			}

			var errs *multierror.Error
			require.ErrorAs(t, err, &errs)
			messages := []string{}
			for _, err := range errs.Errors {
				messages = append(messages, err.Error())
			}
			require.Equal(t, tt.errors, messages)
		})
	}
}
