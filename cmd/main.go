package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/hammem/monarchmoney-go/cmd/root"
	"github.com/hammem/monarchmoney-go/internal/clients"
	"github.com/hammem/monarchmoney-go/internal/clients/monarch"
	"github.com/hammem/monarchmoney-go/internal/config"
	"github.com/hammem/monarchmoney-go/internal/config/env"
	"github.com/hammem/monarchmoney-go/internal/logger"
	"github.com/hammem/monarchmoney-go/internal/tracing"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logsMaxSize    = 10
	logsMaxBackups = 3
	logsMaxAge     = 7

	monarchServiceName = "monarch-cli"
)

type App struct {
	configPath   string
	sessionFile  string
	loggerLevel  string
	apiClient    clients.MonarchServiceClient
	authClient   clients.AuthServiceClient
	credentials  config.CredentialsConfig
	sessionCfg   config.SessionConfig
	tracerCloser io.Closer
}

func main() {
	// Persistent flags are needed before command dispatch.
	if err := root.RootCmd.ParseFlags(os.Args[1:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	currentDir, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get current directory: %v", err)
	}

	app, err := NewApp(root.ConfigPath, currentDir)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	root.InitCommands(app.apiClient, app.authClient, app.credentials, app.sessionCfg, app.sessionFile)

	if app.tracerCloser != nil {
		defer app.tracerCloser.Close()
	}

	root.Execute()
}

func NewApp(configPath string, workDir string) (*App, error) {
	app := &App{
		configPath:  configPath,
		loggerLevel: root.LogLevel,
	}

	// The default .env may be absent; a file that exists but fails to
	// parse is an error regardless of how it was named.
	if err := config.Load(configPath); err != nil {
		if configPath != ".env" || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config: %v", err)
		}
	}

	if err := app.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to init logger: %v", err)
	}

	if err := app.initTracer(); err != nil {
		return nil, fmt.Errorf("failed to init tracer: %v", err)
	}

	sessionCfg := env.NewSessionConfig()
	app.sessionCfg = sessionCfg
	app.sessionFile = filepath.Join(workDir, sessionCfg.Path())

	apiCfg, err := env.NewAPIConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load api config: %v", err)
	}

	credentials, err := env.NewCredentialsConfig()
	if err != nil {
		// Commands that need no fresh login (a saved session, logout) still
		// work without credentials.
		logger.Warn("no credentials configured", zap.Error(err))
	} else {
		app.credentials = credentials
	}

	client := monarch.NewClient(apiCfg, "")
	app.apiClient = client
	app.authClient = client

	return app, nil
}

func (a *App) initLogger() error {
	logger.Init(getCore(getAtomicLevel(a.loggerLevel)))
	return nil
}

func (a *App) initTracer() error {
	cfg, err := env.NewJaegerConfig()
	if err != nil {
		// Without an agent address spans stay unreported no-ops.
		logger.Debug("tracing disabled", zap.Error(err))

		return nil
	}

	closer, err := tracing.Init(monarchServiceName, cfg.Address())
	if err != nil {
		return err
	}
	a.tracerCloser = closer

	return nil
}

func getCore(level zap.AtomicLevel) zapcore.Core {
	// Command output goes to stdout, so log lines go to stderr.
	console := zapcore.AddSync(os.Stderr)

	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   "logs/monarch.log",
		MaxSize:    logsMaxSize, // megabytes
		MaxBackups: logsMaxBackups,
		MaxAge:     logsMaxAge, // days
	})

	productionCfg := zap.NewProductionEncoderConfig()
	productionCfg.TimeKey = "timestamp"
	productionCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	developmentCfg := zap.NewDevelopmentEncoderConfig()
	developmentCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(developmentCfg)
	fileEncoder := zapcore.NewJSONEncoder(productionCfg)

	return zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, console, level),
		zapcore.NewCore(fileEncoder, file, level),
	)
}

func getAtomicLevel(logLevel string) zap.AtomicLevel {
	var level zapcore.Level
	if err := level.Set(logLevel); err != nil {
		log.Fatalf("failed to set log level: %v", err)
	}

	return zap.NewAtomicLevelAt(level)
}
