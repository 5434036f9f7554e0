package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/hubdash/go-hub-dashboards/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	hubsPath     = "/project/v1/hubs"
	projectsPath = "/project/v1/hubs/%s/projects"
	profilePath  = "/userprofile/v1/users/@me"

	defaultTimeout = 15 * time.Second
)

// Client consumes the upstream platform's REST API. Every call carries the
// bearer token it is given; a 401 response surfaces as ErrUnauthorized and
// must be treated as session invalidation by the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a platform client against the given base URL.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

type resourceEnvelope struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Name   string `json:"name"`
			Region string `json:"region"`
		} `json:"attributes"`
	} `json:"data"`
}

// ListHubs returns the hubs the token's user can access.
func (c *Client) ListHubs(ctx context.Context, accessToken string) ([]Hub, error) {
	var envelope resourceEnvelope
	if err := c.get(ctx, hubsPath, accessToken, &envelope); err != nil {
		return nil, errors.Wrap(err, "[Client.ListHubs]")
	}

	hubs := make([]Hub, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		hubs = append(hubs, Hub{
			ID:     item.ID,
			Name:   item.Attributes.Name,
			Region: item.Attributes.Region,
		})
	}
	return hubs, nil
}

// ListProjects returns the projects inside one hub.
func (c *Client) ListProjects(ctx context.Context, accessToken, hubID string) ([]Project, error) {
	if hubID == "" {
		return nil, apperrors.Classify(apperrors.ErrValidation, errors.New("[Client.ListProjects] hubID is required"))
	}

	var envelope resourceEnvelope
	if err := c.get(ctx, fmt.Sprintf(projectsPath, hubID), accessToken, &envelope); err != nil {
		return nil, errors.Wrap(err, "[Client.ListProjects]")
	}

	projects := make([]Project, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		projects = append(projects, Project{
			ID:    item.ID,
			Name:  item.Attributes.Name,
			HubID: hubID,
		})
	}
	return projects, nil
}

// GetUserProfile fetches the authenticated user's identity.
func (c *Client) GetUserProfile(ctx context.Context, accessToken string) (*UserProfile, error) {
	var payload struct {
		UserID    string `json:"userId"`
		UserName  string `json:"userName"`
		EmailID   string `json:"emailId"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Images    struct {
			SizeX40 string `json:"sizeX40"`
		} `json:"profileImages"`
	}

	if err := c.get(ctx, profilePath, accessToken, &payload); err != nil {
		return nil, errors.Wrap(err, "[Client.GetUserProfile]")
	}

	displayName := payload.UserName
	if payload.FirstName != "" || payload.LastName != "" {
		displayName = payload.FirstName + " " + payload.LastName
	}

	return &UserProfile{
		UserID:      payload.UserID,
		DisplayName: displayName,
		Email:       payload.EmailID,
		AvatarURL:   payload.Images.SizeX40,
	}, nil
}

func (c *Client) get(ctx context.Context, path, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "http.NewRequestWithContext")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Classify(apperrors.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.logger.Debug().Str("path", path).Msg("platform rejected token")
		return apperrors.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "json.Decode")
	}
	return nil
}
