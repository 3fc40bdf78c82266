// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package authclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/pollgate/models"
)

// HTTPClient talks to a GoTrue-compatible identity API over HTTP and emits
// local auth-state-change notifications on sign-in, sign-out and refresh.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	events  *Broadcaster
	nowFunc func() time.Time
}

// NewHTTPClient creates a client for the identity backend at baseURL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		events:  NewBroadcaster(),
		nowFunc: time.Now,
	}
}

// backendError is the error envelope the identity API returns.
type backendError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e backendError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return "authentication failed"
}

// apiError pairs a sentinel with the backend's own message. Error returns
// the message alone so it can be shown to users verbatim; errors.Is still
// matches the sentinel through Unwrap.
type apiError struct {
	sentinel error
	msg      string
}

func (e *apiError) Error() string { return e.msg }
func (e *apiError) Unwrap() error { return e.sentinel }

// tokenResponse is the wire form of a session issued by the token endpoint.
type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         *models.User `json:"user"`
}

func (c *HTTPClient) session(tr tokenResponse) *models.Session {
	expiresAt := tr.ExpiresAt
	if expiresAt == 0 && tr.ExpiresIn > 0 {
		expiresAt = c.nowFunc().Unix() + tr.ExpiresIn
	}
	if expiresAt == 0 {
		expiresAt = jwtExpiry(tr.AccessToken)
	}
	return &models.Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    expiresAt,
		User:         tr.User,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path, bearer string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		var be backendError
		_ = json.NewDecoder(resp.Body).Decode(&be)
		if resp.StatusCode == http.StatusUnauthorized {
			return &apiError{sentinel: ErrNotAuthenticated, msg: be.text()}
		}
		return &apiError{sentinel: ErrInvalidCredentials, msg: be.text()}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) SignUp(ctx context.Context, params SignUpParams) (*models.User, error) {
	body := map[string]interface{}{
		"email":    params.Email,
		"password": params.Password,
		"data":     map[string]string{"name": params.Name},
	}
	if params.RedirectTo != "" {
		body["redirect_to"] = params.RedirectTo
	}

	var user models.User
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var tr tokenResponse
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &tr); err != nil {
		return nil, err
	}

	session := c.session(tr)
	c.events.Emit(EventSignedIn, session)
	return session, nil
}

func (c *HTTPClient) SignOut(ctx context.Context, accessToken string) error {
	err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
	// Sign-out is best effort: an already-invalid token still means the
	// caller is signed out locally.
	if err != nil && !errors.Is(err, ErrBackendUnavailable) {
		err = nil
	}
	c.events.Emit(EventSignedOut, nil)
	return err
}

func (c *HTTPClient) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, ErrNotAuthenticated
	}

	var user models.User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetSession validates the token pair against the backend. When the access
// token has lapsed but a refresh token is present, the session is refreshed
// transparently and the returned tokens differ from the inputs; callers must
// forward them to the browser.
func (c *HTTPClient) GetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error) {
	if accessToken == "" && refreshToken == "" {
		return nil, ErrNotAuthenticated
	}

	if accessToken != "" {
		user, err := c.GetUser(ctx, accessToken)
		if err == nil {
			return &models.Session{
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
				ExpiresAt:    jwtExpiry(accessToken),
				User:         user,
			}, nil
		}
		if !errors.Is(err, ErrNotAuthenticated) || refreshToken == "" {
			return nil, err
		}
	}

	return c.RefreshSession(ctx, refreshToken)
}

func (c *HTTPClient) SetSession(ctx context.Context, accessToken, refreshToken string) (*models.Session, error) {
	user, err := c.GetUser(ctx, accessToken)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) && refreshToken != "" {
			return c.RefreshSession(ctx, refreshToken)
		}
		return nil, err
	}

	session := &models.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    jwtExpiry(accessToken),
		User:         user,
	}
	c.events.Emit(EventSignedIn, session)
	return session, nil
}

func (c *HTTPClient) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	if refreshToken == "" {
		return nil, ErrNotAuthenticated
	}

	body := map[string]string{"refresh_token": refreshToken}
	var tr tokenResponse
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &tr); err != nil {
		return nil, err
	}

	session := c.session(tr)
	c.events.Emit(EventTokenRefreshed, session)
	return session, nil
}

func (c *HTTPClient) OnAuthStateChange(fn ChangeFunc) func() {
	return c.events.Subscribe(fn)
}

// jwtExpiry extracts the exp claim from a JWT access token without verifying
// the signature. Verification belongs to the backend; this is only used to
// decide when to refresh. Returns 0 when the token is not a parseable JWT.
func jwtExpiry(token string) int64 {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return 0
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return 0
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return 0
	}
	return claims.Exp
}
