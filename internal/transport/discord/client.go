// Package discord resolves user ids through the Discord REST API.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kailas-cloud/msgsearch/internal/domain"
	"github.com/kailas-cloud/msgsearch/internal/domain/user"
)

// Defaults applied by New for zero config values.
const (
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerSecond = 10.0
	DefaultBurst             = 5
)

// Config holds bot credentials and outbound limits.
type Config struct {
	Tokens            []string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
}

// Client looks up users with a pool of bot sessions, rotating per call.
type Client struct {
	sessions   []*discordgo.Session
	next       atomic.Uint64
	limiter    *RateLimiter
	httpClient *http.Client
}

// New creates a directory client. Blank tokens are skipped; zero tokens is
// valid and makes every lookup fail with domain.ErrNoCredentials.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		limiter:    NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		httpClient: hc,
	}
	for _, tok := range cfg.Tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		s, err := c.newSession(tok)
		if err != nil {
			return nil, fmt.Errorf("discord session: %w", err)
		}
		c.sessions = append(c.sessions, s)
	}
	return c, nil
}

// Credentials returns the number of configured bot tokens.
func (c *Client) Credentials() int { return len(c.sessions) }

// LookupUser fetches a user by id. A non-empty token is used for this call
// only instead of the rotating pool.
func (c *Client) LookupUser(ctx context.Context, id, token string) (user.User, error) {
	s, err := c.pick(token)
	if err != nil {
		return user.User{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return user.User{}, fmt.Errorf("rate limit wait: %w", err)
	}

	du, err := s.User(id, discordgo.WithContext(ctx))
	if err != nil {
		return user.User{}, c.translate(err)
	}
	return toDomain(du), nil
}

// pick returns the override session or the next pooled one.
func (c *Client) pick(token string) (*discordgo.Session, error) {
	if token = strings.TrimSpace(token); token != "" {
		return c.newSession(token)
	}
	if len(c.sessions) == 0 {
		return nil, domain.ErrNoCredentials
	}
	n := c.next.Add(1) - 1
	return c.sessions[n%uint64(len(c.sessions))], nil
}

func (c *Client) newSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + strings.TrimPrefix(token, "Bot "))
	if err != nil {
		return nil, err
	}
	s.Client = c.httpClient
	s.MaxRestRetries = 0
	s.ShouldRetryOnRateLimit = false
	return s, nil
}

func (c *Client) translate(err error) error {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusNotFound:
			return domain.ErrNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("directory rejected credentials: status %d", rest.Response.StatusCode)
		}
		return fmt.Errorf("directory: status %d: %w", rest.Response.StatusCode, err)
	}

	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) {
		if rl.RateLimit != nil && rl.TooManyRequests != nil {
			c.limiter.Backoff(rl.RetryAfter)
		}
		return fmt.Errorf("directory rate limited: %w", err)
	}

	return fmt.Errorf("directory: %w", err)
}

func toDomain(du *discordgo.User) user.User {
	name := du.Username
	if name == "" {
		name = du.GlobalName
	}
	return user.New(du.ID, name, du.Avatar)
}
