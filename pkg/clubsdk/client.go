package clubsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeviceIDHeader names the installation sending a request. The server
// records it on issued sessions.
const DeviceIDHeader = "X-Device-ID"

// Client talks to the club store.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// DeviceID is sent with every request.
	DeviceID string

	// OnSessionExpired, when set, is called with the rejected token whenever
	// an authenticated call answers session_expired.
	OnSessionExpired func(ctx context.Context, token string)
}

// NewClient returns a client with a fresh random device ID and a 10 second
// request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		DeviceID: uuid.NewString(),
	}
}

// WithToken returns a Session that authenticates with token.
func (c *Client) WithToken(token string) *Session {
	return &Session{client: c, token: token}
}

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// SignInWithPassword signs in an administrator, coach or password parent by
// email. Coaches use their access code as the password.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*SessionResponse, error) {
	req := PasswordSignInRequest{Email: email, Password: password}

	var out SessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/sessions/password", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignInWithPhone signs in a parent by phone number.
func (c *Client) SignInWithPhone(ctx context.Context, phone, password string) (*SessionResponse, error) {
	req := PhoneSignInRequest{Phone: phone, Password: password}

	var out SessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/sessions/phone", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FindCoachByAccessCode(ctx context.Context, code string) (*Coach, error) {
	var out Coach
	path := "/v1/coaches?" + url.Values{"access_code": {code}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*Identity, error) {
	var out Identity
	if err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(id), "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FindParentByPhone(ctx context.Context, phone string) (*Parent, error) {
	var out Parent
	path := "/v1/parents?" + url.Values{"phone": {phone}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FindTeamByAccessCode(ctx context.Context, code string) (*Team, error) {
	var out Team
	path := "/v1/teams?" + url.Values{"access_code": {code}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateParent self-registers a parent against a team.
func (c *Client) CreateParent(ctx context.Context, req CreateParentRequest) (*Parent, error) {
	var out Parent
	if err := c.do(ctx, http.MethodPost, "/v1/parents", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. Administrators must also name their club.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Identity, error) {
	var out Identity
	if err := c.do(ctx, http.MethodPost, "/v1/register", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
