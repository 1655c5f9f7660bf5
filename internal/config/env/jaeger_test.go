package env

import "testing"

func TestNewJaegerConfig(t *testing.T) {
	t.Setenv(jaegerHostEnv, "")
	t.Setenv(jaegerPortEnv, "")
	if _, err := NewJaegerConfig(); err == nil {
		t.Fatal("NewJaegerConfig without a host should fail")
	}

	t.Setenv(jaegerHostEnv, "localhost")
	if _, err := NewJaegerConfig(); err == nil {
		t.Fatal("NewJaegerConfig without a port should fail")
	}

	t.Setenv(jaegerPortEnv, "6831")
	cfg, err := NewJaegerConfig()
	if err != nil {
		t.Fatalf("NewJaegerConfig: %v", err)
	}
	if got := cfg.Address(); got != "localhost:6831" {
		t.Errorf("Address() = %q, want localhost:6831", got)
	}
}
