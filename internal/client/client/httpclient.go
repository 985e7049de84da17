package client

import (
	"bytes"
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

	"github.com/dmitrijs2005/connectlink/internal/client/models"
	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/netx"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType,omitempty"`
}

type sessionResponse struct {
	envelope
	models.Session
}

type userResponse struct {
	envelope
	User models.User `json:"user"`
}

type opportunitiesResponse struct {
	envelope
	Opportunities []models.Opportunity `json:"opportunities"`
}

type avatarResponse struct {
	envelope
	models.AvatarUpload
}

type dashboardResponse struct {
	envelope
	models.Dashboard
}

// do sends body (if any) as JSON and decodes a 2xx response into out.
// Transport failures map to ErrUnavailable; error statuses to *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e envelope
		_ = json.Unmarshal(data, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, email string, password []byte, userType string) (*models.Session, error) {
	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", "",
		credentials{Email: email, Password: string(password), UserType: userType}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "",
		credentials{Email: email, Password: string(password)}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, p models.ProfileUpdate) (*models.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodPut, "/users/profile", token, p, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) Dashboard(ctx context.Context, token string) (*models.Dashboard, error) {
	var resp dashboardResponse
	if err := c.do(ctx, http.MethodGet, "/users/dashboard", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Dashboard, nil
}

func (c *HTTPClient) CreateAvatarUpload(ctx context.Context, token string) (*models.AvatarUpload, error) {
	var resp avatarResponse
	if err := c.do(ctx, http.MethodPost, "/users/profile/avatar", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.AvatarUpload, nil
}

// UploadObject PUTs body to a presigned storage URL.
func (c *HTTPClient) UploadObject(ctx context.Context, url, contentType string, body []byte) error {
	if err := netx.PutPresigned(ctx, c.http, url, contentType, body); err != nil {
		return fmt.Errorf("avatar upload: %w", err)
	}
	return nil
}

// Opportunities lists open opportunities; limit <= 0 uses the server
// default.
func (c *HTTPClient) Opportunities(ctx context.Context, limit int) ([]models.Opportunity, error) {
	path := "/opportunities"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp opportunitiesResponse
	if err := c.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Opportunities, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil)
}
