package env

import (
	"errors"
	"net"
	"os"
)

const (
	jaegerHostEnv = "MONARCH_JAEGER_HOST"
	jaegerPortEnv = "MONARCH_JAEGER_PORT"
)

type jaegerConfig struct {
	host string
	port string
}

func NewJaegerConfig() (*jaegerConfig, error) {
	host := os.Getenv(jaegerHostEnv)
	if len(host) == 0 {
		return nil, errors.New("jaeger host is not set")
	}

	port := os.Getenv(jaegerPortEnv)
	if len(port) == 0 {
		return nil, errors.New("jaeger port is not set")
	}

	return &jaegerConfig{
		host: host,
		port: port,
	}, nil
}

func (c *jaegerConfig) Address() string {
	return net.JoinHostPort(c.host, c.port)
}
