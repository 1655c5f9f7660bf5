// Package tracing installs a Jaeger tracer as the process-global
// opentracing tracer, so spans started around remote calls are reported
// to the configured agent.
package tracing

import (
	"fmt"
	"io"

	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Init builds a Jaeger tracer reporting to the agent at address and sets
// it as the opentracing global tracer. The returned closer flushes
// buffered spans and must be closed on shutdown.
func Init(serviceName string, address string) (io.Closer, error) {
	cfg := jaegercfg.Configuration{
		Sampler: &jaegercfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: address,
		},
	}

	closer, err := cfg.InitGlobalTracer(serviceName)
	if err != nil {
		return nil, fmt.Errorf("tracing.Init: %w", err)
	}

	return closer, nil
}
