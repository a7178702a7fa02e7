package web

import (
	"context"
	"encoding/json"
	"fmt"
	"market-lab/domain"
	"market-lab/errors"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleVerifier runs the authorization code flow against Google and turns
// the userinfo answer into a profile.
type GoogleVerifier struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleVerifier(clientID, clientSecret, redirectURL string) *GoogleVerifier {
	return NewVerifier(clientID, clientSecret, redirectURL, google.Endpoint, GoogleUserInfoURL)
}

// NewVerifier points the flow at any OAuth2 provider exposing an OIDC userinfo endpoint.
func NewVerifier(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, userInfoURL string) *GoogleVerifier {
	return &GoogleVerifier{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
		},
		userInfoURL: userInfoURL,
	}
}

func (v *GoogleVerifier) AuthCodeURL(state string) string {
	return v.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

type userInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Verify exchanges the code and fetches the user. Any failure is an identity error.
func (v *GoogleVerifier) Verify(ctx context.Context, code string) (domain.Profile, error) {
	if strings.TrimSpace(code) == "" {
		return domain.Profile{}, fmt.Errorf("%w: missing authorization code", errors.ErrIdentity)
	}
	token, err := v.config.Exchange(ctx, code)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: code exchange: %v", errors.ErrIdentity, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userInfoURL, nil)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", errors.ErrIdentity, err)
	}
	resp, err := v.config.Client(ctx, token).Do(req)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: userinfo: %v", errors.ErrIdentity, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.Profile{}, fmt.Errorf("%w: userinfo answered %d", errors.ErrIdentity, resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: userinfo decode: %v", errors.ErrIdentity, err)
	}
	if info.Sub == "" {
		return domain.Profile{}, fmt.Errorf("%w: userinfo has no subject", errors.ErrIdentity)
	}
	return domain.Profile{UserID: info.Sub, Email: info.Email, DisplayName: info.Name}, nil
}
