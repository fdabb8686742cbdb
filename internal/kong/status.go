package kong

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver"
	"github.com/cenkalti/backoff"
	"github.com/hashicorp/go-hclog"
)

// MinimumVersion is the oldest Kong release that upserts services and
// routes by name with PUT.
const MinimumVersion = "1.0.0"

// NodeInfo is the subset of GET / used by this client.
type NodeInfo struct {
	Version  string `json:"version"`
	Hostname string `json:"hostname"`
	Tagline  string `json:"tagline"`
}

// NodeStatus is the subset of GET /status used by this client.
type NodeStatus struct {
	Database struct {
		Reachable bool `json:"reachable"`
	} `json:"database"`
}

func (c *Client) Info(ctx context.Context) (*NodeInfo, error) {
	info := &NodeInfo{}
	if err := c.do(ctx, http.MethodGet, "/", "/", nil, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *Client) Status(ctx context.Context) (*NodeStatus, error) {
	status := &NodeStatus{}
	if err := c.do(ctx, http.MethodGet, "/status", "/status", nil, status); err != nil {
		return nil, err
	}
	return status, nil
}

// CheckVersion fails if version is older than minimum. Kong enterprise
// releases carry a fourth segment and a suffix, both ignored.
func CheckVersion(version, minimum string) error {
	current, err := semver.NewVersion(normalizeVersion(version))
	if err != nil {
		return fmt.Errorf("parsing gateway version %q: %w", version, err)
	}
	required, err := semver.NewVersion(minimum)
	if err != nil {
		return fmt.Errorf("parsing minimum version %q: %w", minimum, err)
	}
	if current.LessThan(required) {
		return fmt.Errorf("gateway version %s is older than the supported minimum %s", version, minimum)
	}
	return nil
}

func normalizeVersion(version string) string {
	version = strings.SplitN(version, "-", 2)[0]
	segments := strings.Split(version, ".")
	if len(segments) > 3 {
		segments = segments[:3]
	}
	return strings.Join(segments, ".")
}

var errDatabaseUnreachable = errors.New("gateway database is not reachable")

// WaitReady polls the node status until the gateway answers and reports its
// database reachable, giving up after attempts retries.
func WaitReady(ctx context.Context, client *Client, interval time.Duration, attempts uint64, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), attempts), ctx)
	return backoff.Retry(func() error {
		status, err := client.Status(ctx)
		if err != nil {
			logger.Debug("gateway not ready; retrying", "error", err)
			return err
		}
		if !status.Database.Reachable {
			logger.Debug("gateway database not reachable; retrying")
			return errDatabaseUnreachable
		}
		return nil
	}, policy)
}
