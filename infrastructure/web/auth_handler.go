package web

import (
	"fmt"
	"log/slog"
	"market-lab/auth"
	"market-lab/contract"
	"market-lab/errors"
	"market-lab/services"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	stateLifetime = 10 * time.Minute
	// StateCookie carries the nonce that binds the signed state to the browser.
	StateCookie = "oauth_state"
	cookiePath  = "/auth/google"
)

// StateSigner signs the OAuth state so the callback needs no server-side session.
type StateSigner interface {
	Issue(subject string) (string, time.Time, error)
	Validate(token string) (*auth.CustomClaims, error)
}

type Redirects struct {
	FrontendURL  string
	CallbackPath string
	FailurePath  string
}

type AuthHandler struct {
	log       *slog.Logger
	verifier  contract.IIdentityVerifier
	identity  services.IIdentityService
	state     StateSigner
	redirects Redirects
}

func NewAuthHandler(log *slog.Logger, verifier contract.IIdentityVerifier,
	identity services.IIdentityService, state StateSigner, redirects Redirects) *AuthHandler {
	return &AuthHandler{log: log, verifier: verifier, identity: identity, state: state, redirects: redirects}
}

// NewStateSigner returns a signer whose tokens only live for the login round trip.
func NewStateSigner(secret, issuer string) *auth.TokenIssuer {
	return auth.NewTokenIssuer(secret, issuer+"/oauth-state", stateLifetime)
}

func (h *AuthHandler) Login(c *gin.Context) {
	nonce := uuid.NewString()
	state, _, err := h.state.Issue(nonce)
	if err != nil {
		h.log.Error("Failed to sign oauth state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(StateCookie, nonce, int(stateLifetime.Seconds()), cookiePath, "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusTemporaryRedirect, h.verifier.AuthCodeURL(state))
}

// Callback finishes the login and sends the browser back to the frontend
// with the session or to the failure page.
func (h *AuthHandler) Callback(c *gin.Context) {
	// The nonce is single use.
	nonce, _ := c.Cookie(StateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(StateCookie, "", -1, cookiePath, "", c.Request.TLS != nil, true)

	if reason := c.Query("error"); reason != "" {
		h.fail(c, "provider refused", fmt.Errorf("%w: %s", errors.ErrIdentity, reason))
		return
	}
	claims, err := h.state.Validate(c.Query("state"))
	if err != nil {
		h.fail(c, "invalid state", fmt.Errorf("%w: %v", errors.ErrIdentity, err))
		return
	}
	// A state minted for another browser must not complete this login.
	if nonce == "" || claims.Subject != nonce {
		h.fail(c, "state not bound to this browser", fmt.Errorf("%w: state nonce mismatch", errors.ErrIdentity))
		return
	}

	ctx := c.Request.Context()
	profile, err := h.verifier.Verify(ctx, c.Query("code"))
	if err != nil {
		h.fail(c, "verification failed", err)
		return
	}
	session, err := h.identity.SignIn(ctx, profile)
	if err != nil {
		h.fail(c, "sign in failed", err)
		return
	}

	target, err := url.Parse(h.redirects.FrontendURL + h.redirects.CallbackPath)
	if err != nil {
		h.fail(c, "bad callback url", err)
		return
	}
	q := target.Query()
	q.Set("token", session.Credential)
	q.Set("isNewAccount", flag(session.IsNewAccount))
	q.Set("isProvider", flag(session.IsProvider))
	target.RawQuery = q.Encode()

	h.log.Info("User signed in", "user_id", profile.UserID,
		"is_new_account", session.IsNewAccount, "is_provider", session.IsProvider)
	c.Redirect(http.StatusTemporaryRedirect, target.String())
}

// fail never leaks the cause to the browser, only to the logs.
func (h *AuthHandler) fail(c *gin.Context, msg string, err error) {
	code, public := errors.ToHTTPStatus(err)
	h.log.Warn("Login failed", "reason", msg, "kind", public, "status", code, "error", err)
	c.Redirect(http.StatusTemporaryRedirect, h.redirects.FrontendURL+h.redirects.FailurePath)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
