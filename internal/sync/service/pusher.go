// Package service implements the remote side of the synchronization engine:
// delivering outbox entries to a PostgREST-style endpoint and probing it.
package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bkjonathan/sine-shin/internal/errors"
	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// requiredRemoteTables are the tables a healthy remote schema must expose.
var requiredRemoteTables = []string{
	"customers",
	"orders",
	"order_items",
	"expenses",
	"shop_settings",
	"sync_log",
}

// Pusher delivers outbox entries to a remote endpoint.
type Pusher interface {
	Push(ctx context.Context, config *domain.RemoteConfig, entry *outboxdomain.Entry) error
	TestConnection(ctx context.Context, config *domain.RemoteConfig) (*domain.ConnectionResult, error)
}

// HTTPPusher pushes entries to a PostgREST-compatible REST endpoint such as
// Supabase. Inserts upsert with merge-duplicates so redelivery after a crash
// is idempotent; updates and soft deletes patch the row by primary key.
type HTTPPusher struct {
	client *http.Client
}

// NewHTTPPusher creates a new HTTPPusher with the given request timeout.
func NewHTTPPusher(timeout time.Duration) *HTTPPusher {
	return &HTTPPusher{
		client: &http.Client{Timeout: timeout},
	}
}

// Push delivers one outbox entry. Any non-2xx response is an error carrying
// the status and response body, which the caller records on the entry.
func (p *HTTPPusher) Push(ctx context.Context, config *domain.RemoteConfig, entry *outboxdomain.Entry) error {
	var (
		method string
		url    string
	)

	switch entry.Operation {
	case outboxdomain.OperationInsert:
		method = http.MethodPost
		url = config.EndpointURL + "/rest/v1/" + entry.TableName
	case outboxdomain.OperationUpdate, outboxdomain.OperationDelete:
		method = http.MethodPatch
		url = config.EndpointURL + "/rest/v1/" + entry.TableName + "?id=eq." + strconv.FormatInt(entry.RecordID, 10)
	default:
		return errors.Wrap(errors.ErrInvalidInput, "unknown operation "+string(entry.Operation))
	}

	req, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader(entry.Payload))
	if err != nil {
		return err
	}

	req.Header.Set("apikey", config.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+config.ServiceKey)
	req.Header.Set("Content-Type", "application/json")
	if entry.Operation == outboxdomain.OperationInsert {
		req.Header.Set("Prefer", "resolution=merge-duplicates")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		// transport-level failure, as opposed to the remote rejecting the row
		return errors.Wrap(domain.ErrRemoteUnreachable, err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

// TestConnection probes the remote schema root with the anon key and checks
// that every required table is exposed. Reachability problems are reported
// in the result rather than as an error.
func (p *HTTPPusher) TestConnection(ctx context.Context, config *domain.RemoteConfig) (*domain.ConnectionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.EndpointURL+"/rest/v1/", nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", config.AnonKey)
	req.Header.Set("Authorization", "Bearer "+config.AnonKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return &domain.ConnectionResult{
			Connected: false,
			Message:   "connection failed: " + err.Error(),
		}, nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.ConnectionResult{
			Connected: false,
			Message:   fmt.Sprintf("endpoint returned HTTP %d", resp.StatusCode),
		}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	schema := string(body)
	var missing []string
	for _, table := range requiredRemoteTables {
		if !strings.Contains(schema, table) {
			missing = append(missing, table)
		}
	}

	result := &domain.ConnectionResult{
		Connected:   true,
		TablesExist: len(missing) == 0,
		Missing:     missing,
	}
	if result.TablesExist {
		result.Message = "connected, all required tables present"
	} else {
		result.Message = "connected, missing tables: " + strings.Join(missing, ", ")
	}

	return result, nil
}
