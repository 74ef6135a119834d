package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"flood-monitor/internal/app"
	"flood-monitor/internal/ezviz"
)

// GetTokenCommand возвращает команду получения токена EZVIZ
func GetTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Fetch an EZVIZ access token with the configured credentials",
		Action: func(c *cli.Context) error {
			ctx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer ctx.Logger.Sync()

			client := app.NewEzvizClient(ctx.Config, ctx.Logger, nil)
			token, err := client.AccessToken(c.Context)
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to get access token: %v", err), 1)
			}

			fmt.Fprintf(c.App.Writer, "Access token: %s\n", token.Value)
			fmt.Fprintf(c.App.Writer, "Expires at:   %s\n", token.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
}

// GetDevicesCommand возвращает команду вывода устройств EZVIZ
func GetDevicesCommand() *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List devices of the EZVIZ account",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page-start",
				Value: 0,
				Usage: "Page index",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Value: ezviz.DefaultPageSize,
				Usage: "Devices per page",
			},
			&cli.StringFlag{
				Name:  "serial",
				Usage: "Show channels of one device instead of the device list",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer ctx.Logger.Sync()

			client := app.NewEzvizClient(ctx.Config, ctx.Logger, nil)

			var data json.RawMessage
			if serial := c.String("serial"); serial != "" {
				data, err = client.CameraList(c.Context, serial)
			} else {
				data, err = client.DeviceList(c.Context, c.Int("page-start"), c.Int("page-size"))
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("EZVIZ request failed: %v", err), 1)
			}

			ctx.Logger.Debug("EZVIZ response received", zap.Int("bytes", len(data)))
			return printRawJSON(c, data)
		},
	}
}

func printRawJSON(c *cli.Context, data json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		// data отдается как есть, даже если это не JSON-объект
		_, err = fmt.Fprintln(c.App.Writer, string(data))
		return err
	}
	buf.WriteByte('\n')
	_, err := c.App.Writer.Write(buf.Bytes())
	return err
}
