package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sellerdesk/sellerdesk/internal/client"
	"github.com/sellerdesk/sellerdesk/internal/session"
)

// loginInput carries validated login credentials.
type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// otpInput carries a validated OTP verification request.
type otpInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// tokenBundle is the token grant returned by login (when OTP is waived) and
// by OTP verification.
type tokenBundle struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in"`
	Profile      *session.Profile `json:"profile"`
}

// loginResponse is the wire response of the login endpoint. Either
// OTPRequired is set, or the token bundle fields are populated directly.
type loginResponse struct {
	OTPRequired bool `json:"otp_required"`
	tokenBundle
}

// Login submits credentials. When the account requires email OTP the first
// return is true and the caller must follow up with VerifyOTP; otherwise the
// returned token bundle is committed to the session store immediately.
func (a *API) Login(ctx context.Context, email, password string) (otpRequired bool, err error) {
	in := loginInput{Email: email, Password: password}
	if err := validate.Struct(in); err != nil {
		return false, fmt.Errorf("invalid credentials: %w", err)
	}

	var resp loginResponse
	err = a.c.DoJSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/login",
		Body:   in,
		NoAuth: true,
	}, &resp)
	if err != nil {
		return false, err
	}

	if resp.OTPRequired {
		a.logger.Debug("login accepted, OTP required", "email", email)
		return true, nil
	}
	return false, a.commit(resp.tokenBundle)
}

// VerifyOTP exchanges the emailed one-time code for a token bundle and
// commits it to the session store.
func (a *API) VerifyOTP(ctx context.Context, email, code string) (*session.Profile, error) {
	in := otpInput{Email: email, Code: code}
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid code: %w", err)
	}

	var bundle tokenBundle
	err := a.c.DoJSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/verify-otp",
		Body:   in,
		NoAuth: true,
	}, &bundle)
	if err != nil {
		return nil, err
	}
	if err := a.commit(bundle); err != nil {
		return nil, err
	}
	return bundle.Profile, nil
}

// Logout revokes the session server-side (best effort) and clears the local
// session unconditionally.
func (a *API) Logout(ctx context.Context) error {
	err := a.c.DoJSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/logout",
	}, nil)
	if err != nil {
		// Server-side revocation failing must not keep the user logged in
		// locally. Expired sessions are already cleared by the client.
		if errors.Is(err, client.ErrAuthExpired) {
			return nil
		}
		a.logger.Warn("server-side logout failed, clearing local session anyway", "error", err)
	}
	return a.store.Clear()
}

// commit writes a token grant to the session store.
func (a *API) commit(b tokenBundle) error {
	if b.AccessToken == "" {
		return fmt.Errorf("token grant missing access token")
	}
	return a.store.SetTokens(
		b.AccessToken,
		b.RefreshToken,
		time.Duration(b.ExpiresIn)*time.Second,
		b.Profile,
	)
}
