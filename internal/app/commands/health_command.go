package commands

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"flood-monitor/internal/app"
	"flood-monitor/internal/backend"
	"flood-monitor/internal/grpc_client"
)

// GetHealthCheckCommand возвращает команду проверки запущенного сервиса
func GetHealthCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "health-check",
		Usage: "Check a running server through its /api/ezviz backend API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Backend base URL (overrides backend.base_url)",
			},
			&cli.BoolFlag{
				Name:  "token",
				Usage: "Also request an access token",
			},
			&cli.StringFlag{
				Name:  "grpc",
				Usage: "Also query the gRPC health service at host:port",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer ctx.Logger.Sync()

			baseURL := ctx.Config.Backend.BaseURL
			if c.IsSet("url") {
				baseURL = c.String("url")
			}
			client := backend.NewClient(baseURL, ctx.Config.Backend.Timeout, ctx.Logger)

			health := client.HealthCheck(c.Context)
			if !health.OK() {
				return cli.Exit(fmt.Sprintf("unhealthy: %s", health.Error), 1)
			}
			fmt.Fprintf(c.App.Writer, "Status:    %s\n", health.Status)
			fmt.Fprintf(c.App.Writer, "Now:       %s\n", time.UnixMilli(health.Now).UTC().Format(time.RFC3339))
			fmt.Fprintf(c.App.Writer, "Has token: %t\n", health.HasToken)

			if c.Bool("token") {
				env := client.GetAccessToken(c.Context)
				if !env.Success {
					return cli.Exit(fmt.Sprintf("token request failed: %s", env.Error), 1)
				}
				fmt.Fprintf(c.App.Writer, "Token:     %s\n", env.AccessToken)
			}

			if addr := c.String("grpc"); addr != "" {
				hc, err := grpc_client.NewHealthClient(addr, ctx.Config.Backend.Timeout, ctx.Logger)
				if err != nil {
					return err
				}
				defer hc.Close()

				statuses, err := hc.CheckAll(c.Context, "", app.EzvizHealthService)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				fmt.Fprintf(c.App.Writer, "gRPC:      %s\n", statuses[""])
				fmt.Fprintf(c.App.Writer, "gRPC %s: %s\n", app.EzvizHealthService, statuses[app.EzvizHealthService])
				if statuses[""] != healthpb.HealthCheckResponse_SERVING {
					return cli.Exit("gRPC server is not serving", 1)
				}
			}
			return nil
		},
	}
}
