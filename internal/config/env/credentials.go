package env

import (
	"fmt"
	"os"
)

const (
	tokenEnv     = "MONARCH_TOKEN"
	emailEnv     = "MONARCH_EMAIL"
	passwordEnv  = "MONARCH_PASSWORD"
	mfaSecretEnv = "MONARCH_MFA_SECRET"
)

type credentialsConfig struct {
	token     string
	email     string
	password  string
	mfaSecret string
}

// NewCredentialsConfig reads auth material from the environment. Either a
// token override or an email/password pair must be present; the MFA secret
// is optional and only used during login.
func NewCredentialsConfig() (*credentialsConfig, error) {
	cfg := &credentialsConfig{
		token:     os.Getenv(tokenEnv),
		email:     os.Getenv(emailEnv),
		password:  os.Getenv(passwordEnv),
		mfaSecret: os.Getenv(mfaSecretEnv),
	}

	if len(cfg.token) == 0 && (len(cfg.email) == 0 || len(cfg.password) == 0) {
		return nil, fmt.Errorf("no credentials configured: set %s, or %s and %s", tokenEnv, emailEnv, passwordEnv)
	}

	return cfg, nil
}

func (c *credentialsConfig) Token() string {
	return c.token
}

func (c *credentialsConfig) Email() string {
	return c.email
}

func (c *credentialsConfig) Password() string {
	return c.password
}

func (c *credentialsConfig) MFASecret() string {
	return c.mfaSecret
}
