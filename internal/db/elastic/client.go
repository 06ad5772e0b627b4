package elastic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/msgsearch/internal/db"
)

// Compile-time check: Store implements db.SearchStore.
var _ db.SearchStore = (*Store)(nil)

// Config holds connection parameters for an Elasticsearch deployment.
// CloudID is used for hosted deployments and wins over Addresses, which serve
// self-managed or local clusters.
type Config struct {
	CloudID   string
	Username  string
	Password  string
	Addresses []string
}

// Store implements db.SearchStore via the official Elasticsearch client.
type Store struct {
	client    *elasticsearch.Client
	transport *http.Transport
}

// NewStore creates an Elasticsearch store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.CloudID == "" && len(cfg.Addresses) == 0 {
		return nil, errors.New("cloud id or addresses is required")
	}
	if cfg.CloudID != "" && (cfg.Username == "" || cfg.Password == "") {
		return nil, errors.New("username and password are required with cloud id")
	}

	addrs := cfg.Addresses
	if cfg.CloudID != "" {
		addrs = nil
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		CloudID:   cfg.CloudID,
		Addresses: addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: tr,
		// Failed calls surface immediately; the caller decides what to do.
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, transport: tr}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := esapi.PingRequest{}.Do(ctx, s.client)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer closeBody(res)
	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("%w: status %d", db.ErrBackendRejected, res.StatusCode)}
	}
	return nil
}

// Close releases idle connections.
func (s *Store) Close() {
	s.transport.CloseIdleConnections()
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for search backend: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// checkResponse turns a non-2xx response into a db.Error carrying the backend reason.
func checkResponse(op string, res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	reason := errorReason(body)
	if reason == "" {
		reason = http.StatusText(res.StatusCode)
	}
	return &db.Error{
		Op:  op,
		Err: fmt.Errorf("%w: status %d: %s", db.ErrBackendRejected, res.StatusCode, reason),
	}
}

func closeBody(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}
}
