package config

import (
	"time"

	"github.com/joho/godotenv"
)

type APIConfig interface {
	BaseURL() string
	LoginURL() string
	GraphQLURL() string
	Timeout() time.Duration
}

type CredentialsConfig interface {
	Token() string
	Email() string
	Password() string
	MFASecret() string
}

type JaegerConfig interface {
	Address() string
}

type SessionConfig interface {
	Path() string
	TTL() time.Duration
	Mode() string
}

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}

	return nil
}
