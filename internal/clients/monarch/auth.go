package monarch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hammem/monarchmoney-go/internal/logger"
	"github.com/opentracing/opentracing-go"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	TOTP          string `json:"totp,omitempty"`
	SupportsMFA   bool   `json:"supports_mfa"`
	TrustedDevice bool   `json:"trusted_device"`
}

type loginResponse struct {
	Token     string `json:"token"`
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code"`
}

// Login authenticates with email and password and returns a fresh token.
// When mfaSecret is set, a one-time code is generated from it and sent with
// the initial request, so accounts with MFA enabled log in without a prompt.
// A 403 without such a secret surfaces as ErrMFARequired.
func (c *client) Login(ctx context.Context, email string, password string, mfaSecret string) (string, error) {
	if len(email) == 0 || len(password) == 0 {
		return "", fmt.Errorf("%w: email and password are required when not using a saved session", ErrLoginFailed)
	}

	body := loginRequest{
		Username:    email,
		Password:    password,
		SupportsMFA: true,
	}

	if len(mfaSecret) > 0 {
		code, err := totp.GenerateCode(mfaSecret, time.Now())
		if err != nil {
			return "", fmt.Errorf("monarch.Login: generate one-time code: %w", err)
		}
		body.TOTP = code
	}

	status, resp, err := c.postLogin(ctx, "Login", body)
	if err != nil {
		return "", fmt.Errorf("monarch.Login: %w", err)
	}

	switch {
	case status == http.StatusForbidden:
		return "", ErrMFARequired
	case status != http.StatusOK:
		return "", fmt.Errorf("%w: http %d: %s", ErrLoginFailed, status, resp.message())
	case len(resp.Token) == 0:
		return "", fmt.Errorf("%w: response carried no token", ErrLoginFailed)
	}

	c.token = resp.Token

	return resp.Token, nil
}

// MultiFactorAuthenticate completes a login that answered ErrMFARequired,
// using an explicit one-time code.
func (c *client) MultiFactorAuthenticate(ctx context.Context, email string, password string, code string) (string, error) {
	body := loginRequest{
		Username:    email,
		Password:    password,
		TOTP:        code,
		SupportsMFA: true,
	}

	status, resp, err := c.postLogin(ctx, "MultiFactorAuthenticate", body)
	if err != nil {
		return "", fmt.Errorf("monarch.MultiFactorAuthenticate: %w", err)
	}

	if status != http.StatusOK {
		// A "detail" message on a failed MFA attempt means the code itself
		// was rejected.
		if len(resp.Detail) > 0 {
			return "", fmt.Errorf("%w: %s", ErrMFARequired, resp.Detail)
		}

		return "", fmt.Errorf("%w: http %d: %s", ErrLoginFailed, status, resp.message())
	}

	if len(resp.Token) == 0 {
		return "", fmt.Errorf("%w: response carried no token", ErrLoginFailed)
	}

	c.token = resp.Token

	return resp.Token, nil
}

func (c *client) postLogin(ctx context.Context, operation string, body loginRequest) (int, *loginResponse, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "monarch."+operation)
	defer span.Finish()

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	c.applyHeaders(req.Header)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("login request failed", zap.Error(err))

		return 0, nil, err
	}
	defer httpResp.Body.Close()

	resp := &loginResponse{}
	// Failure bodies are not always JSON; keep whatever fields decoded.
	_ = json.NewDecoder(httpResp.Body).Decode(resp)

	return httpResp.StatusCode, resp, nil
}

func (r *loginResponse) message() string {
	switch {
	case len(r.Detail) > 0:
		return r.Detail
	case len(r.ErrorCode) > 0:
		return r.ErrorCode
	default:
		return "unrecognized error response"
	}
}
