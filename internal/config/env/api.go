package env

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	baseURLEnv = "MONARCH_BASE_URL"
	timeoutEnv = "MONARCH_TIMEOUT_SECONDS"
)

const (
	defaultBaseURL        = "https://api.monarchmoney.com"
	defaultTimeoutSeconds = 10
)

type apiConfig struct {
	baseURL string
	timeout time.Duration
}

func NewAPIConfig() (*apiConfig, error) {
	baseURL := os.Getenv(baseURLEnv)
	if len(baseURL) == 0 {
		baseURL = defaultBaseURL
	}

	seconds := defaultTimeoutSeconds
	if raw := os.Getenv(timeoutEnv); len(raw) > 0 {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid %s value %q", timeoutEnv, raw)
		}
		seconds = parsed
	}

	return &apiConfig{
		baseURL: baseURL,
		timeout: time.Duration(seconds) * time.Second,
	}, nil
}

func (c *apiConfig) BaseURL() string {
	return c.baseURL
}

func (c *apiConfig) LoginURL() string {
	return c.baseURL + "/auth/login/"
}

func (c *apiConfig) GraphQLURL() string {
	return c.baseURL + "/graphql"
}

func (c *apiConfig) Timeout() time.Duration {
	return c.timeout
}
