package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// HTTPClient matches the subset of http.Client used by IdentityService.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// IdentityService implements Service against the Identity Toolkit REST API
// using the project's web API key.
type IdentityService struct {
	baseURL string
	apiKey  string
	client  HTTPClient
}

// NewIdentityService constructs an IdentityService. The base URL defaults to
// the public Identity Toolkit endpoint when empty.
func NewIdentityService(apiKey, baseURL string, client HTTPClient) (*IdentityService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("settings: api key is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &IdentityService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}, nil
}

// SignIn exchanges credentials for tokens via accounts:signInWithPassword.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var payload struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		LocalID      string `json:"localId"`
		Email        string `json:"email"`
		ExpiresIn    string `json:"expiresIn"`
	}
	if err := s.post(ctx, "accounts:signInWithPassword", body, &payload); err != nil {
		return SignInResult{}, err
	}

	result := SignInResult{
		IDToken:      payload.IDToken,
		RefreshToken: payload.RefreshToken,
		UID:          payload.LocalID,
		Email:        payload.Email,
	}
	if secs, err := strconv.Atoi(payload.ExpiresIn); err == nil {
		result.ExpiresIn = time.Duration(secs) * time.Second
	}
	return result, nil
}

// Account fetches profile details via accounts:lookup.
func (s *IdentityService) Account(ctx context.Context, idToken string) (Account, error) {
	body := map[string]any{"idToken": idToken}

	var payload struct {
		Users []struct {
			Email       string `json:"email"`
			LastLoginAt string `json:"lastLoginAt"`
		} `json:"users"`
	}
	if err := s.post(ctx, "accounts:lookup", body, &payload); err != nil {
		return Account{}, err
	}
	if len(payload.Users) == 0 {
		return Account{}, fmt.Errorf("settings: account lookup returned no users")
	}

	account := Account{Email: payload.Users[0].Email}
	if millis, err := strconv.ParseInt(payload.Users[0].LastLoginAt, 10, 64); err == nil && millis > 0 {
		account.LastSignIn = time.UnixMilli(millis)
	}
	return account, nil
}

// ChangePassword re-authenticates and then updates the password with the
// freshly issued token via accounts:update.
func (s *IdentityService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	signedIn, err := s.SignIn(ctx, req.Email, req.CurrentPassword)
	if err != nil {
		return err
	}

	body := map[string]any{
		"idToken":           signedIn.IDToken,
		"password":          req.NewPassword,
		"returnSecureToken": true,
	}
	var payload struct {
		IDToken string `json:"idToken"`
	}
	return s.post(ctx, "accounts:update", body, &payload)
}

func (s *IdentityService) post(ctx context.Context, endpoint string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("settings: encode %s request: %w", endpoint, err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", s.baseURL, endpoint, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("settings: build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("settings: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.errorFromResponse(endpoint, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("settings: decode %s response: %w", endpoint, err)
	}
	return nil
}

func (s *IdentityService) errorFromResponse(endpoint string, resp *http.Response) error {
	payload := struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}{}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &payload)

	message := payload.Error.Message
	switch {
	case strings.HasPrefix(message, "INVALID_PASSWORD"),
		strings.HasPrefix(message, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(message, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(message, "INVALID_EMAIL"):
		return fmt.Errorf("settings: %s: %w", endpoint, ErrInvalidCredentials)
	case message != "":
		return fmt.Errorf("settings: %s: %s (status %d)", endpoint, message, resp.StatusCode)
	default:
		return fmt.Errorf("settings: %s: unexpected status %d", endpoint, resp.StatusCode)
	}
}
