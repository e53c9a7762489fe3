package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/resto-backoffice/internal/bootstrap"
	"github.com/jhoicas/resto-backoffice/internal/interfaces/cli"
	"github.com/jhoicas/resto-backoffice/pkg/config"
	"github.com/jhoicas/resto-backoffice/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context) (cli.Deps, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return cli.Deps{}, nil, fmt.Errorf("cargar configuración: %w", err)
		}
		// Logs a stderr; stdout queda para la salida del comando.
		log := logger.New(logger.Config{
			Env:     cfg.App.Env,
			Level:   cfg.App.LogLevel,
			Service: "reportctl",
			Output:  os.Stderr,
		})
		app, err := bootstrap.New(ctx, cfg, log)
		if err != nil {
			return cli.Deps{}, nil, err
		}
		return cli.Deps{Pipeline: app.Pipeline, Queries: app.Queries}, app.Close, nil
	}

	err := cli.NewRootCmd(factory).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
