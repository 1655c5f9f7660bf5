package env

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const modeEnv = "MONARCH_ENV"

const (
	sessionDir  = ".mm"
	sessionFile = "mm_session.json"

	modeProduction  = "production"
	modeDevelopment = "development"

	// Production sessions go stale quickly; development keeps them for an
	// hour to avoid re-login churn.
	productionTTL  = 15 * time.Minute
	developmentTTL = time.Hour
)

type sessionConfig struct {
	mode string
}

func NewSessionConfig() *sessionConfig {
	mode := strings.ToLower(os.Getenv(modeEnv))
	if len(mode) == 0 {
		mode = modeDevelopment
	}

	return &sessionConfig{mode: mode}
}

// Path is the session file location relative to the working tree.
func (c *sessionConfig) Path() string {
	return filepath.Join(sessionDir, sessionFile)
}

func (c *sessionConfig) TTL() time.Duration {
	if c.mode == modeProduction {
		return productionTTL
	}

	return developmentTTL
}

func (c *sessionConfig) Mode() string {
	return c.mode
}
