package commands

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"flood-monitor/internal/app"
)

// GetServerCommand возвращает команду для запуска сервера
func GetServerCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Start the flood monitor HTTP + gRPC server",
		Description: `Start the HTTP API (cameras, EZVIZ backend, live feed, metrics)
together with the gRPC health service.

Examples:
  flood-monitor server --port 9000
  flood-monitor --config ./config/config.yaml server --grpc-port 9091`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "HTTP port (overrides config)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Server host (overrides config)",
			},
			&cli.StringFlag{
				Name:  "grpc-port",
				Usage: "gRPC port (overrides config)",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer ctx.Logger.Sync()

			ctx.Logger.Info("Starting flood monitor server",
				zap.String("address", ctx.Config.Address()),
				zap.String("grpc_port", ctx.Config.GRPCPort),
				zap.Bool("debug", c.Bool("debug")),
				zap.Bool("ezviz_credentials", ctx.Config.Ezviz.AppKey != ""))

			// Создаем приложение
			application, err := app.NewApplicationWithConfig(ctx.Config, ctx.Logger)
			if err != nil {
				return err
			}

			return application.Run()
		},
	}
}
