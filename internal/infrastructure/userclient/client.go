package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/musicplayer/platform/internal/api/metrics"
	"github.com/musicplayer/platform/internal/core/domain"
)

const defaultTimeout = 3 * time.Second

// Config captures the settings for reaching the user service.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.UserLookup against the user service's
// GET /users/email/{email} endpoint.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// New returns a Client. A default timeout is applied when none is provided.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

// credentialResponse mirrors the user service's credential payload.
type credentialResponse struct {
	UserID       int64  `json:"user_id"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
}

// ByEmail fetches the credential record for email. The call never outlives the
// configured timeout, whatever the caller's deadline.
func (c *Client) ByEmail(ctx context.Context, email string) (*domain.CredentialRecord, error) {
	start := time.Now()
	rec, err := c.byEmail(ctx, email)

	result := "found"
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		result = "not_found"
	case err != nil:
		result = "unavailable"
	}
	metrics.UserLookupDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	return rec, err
}

func (c *Client) byEmail(ctx context.Context, email string) (*domain.CredentialRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/users/email/" + url.PathEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrDependencyUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: user service: %w", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, domain.ErrUserNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: user service returned status %d", domain.ErrDependencyUnavailable, resp.StatusCode)
	}

	var body credentialResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode user service response: %w", domain.ErrDependencyUnavailable, err)
	}
	if body.UserID <= 0 || body.PasswordHash == "" {
		return nil, fmt.Errorf("%w: user %d", domain.ErrMalformedRecord, body.UserID)
	}

	return &domain.CredentialRecord{
		PrincipalID:    strconv.FormatInt(body.UserID, 10),
		PasswordDigest: body.PasswordHash,
		Role:           body.Role,
	}, nil
}
