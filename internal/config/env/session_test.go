package env

import (
	"testing"
	"time"
)

func TestSessionTTLByMode(t *testing.T) {
	tests := []struct {
		mode string
		want time.Duration
	}{
		{"production", 900 * time.Second},
		{"development", 3600 * time.Second},
		{"PRODUCTION", 900 * time.Second},
		{"", 3600 * time.Second},
		{"staging", 3600 * time.Second},
	}

	for _, tt := range tests {
		t.Setenv(modeEnv, tt.mode)
		cfg := NewSessionConfig()
		if got := cfg.TTL(); got != tt.want {
			t.Errorf("mode %q: TTL = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestSessionModeDefaultsToDevelopment(t *testing.T) {
	t.Setenv(modeEnv, "")
	if mode := NewSessionConfig().Mode(); mode != "development" {
		t.Errorf("Mode = %q, want development", mode)
	}
}
