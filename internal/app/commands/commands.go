package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"flood-monitor/internal/app"
)

// GetCommands возвращает все доступные команды
func GetCommands() []*cli.Command {
	return []*cli.Command{
		GetServerCommand(),
		GetCamerasCommand(),
		GetTokenCommand(),
		GetDevicesCommand(),
		GetHealthCheckCommand(),
		GetVersionCommand(),
	}
}

// GetVersionCommand возвращает команду вывода версии
func GetVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "Flood Monitor\n")
			fmt.Fprintf(c.App.Writer, "Version:    %s\n", app.Version)
			fmt.Fprintf(c.App.Writer, "Commit:     %s\n", app.Commit)
			fmt.Fprintf(c.App.Writer, "Build Date: %s\n", app.BuildDate)
			return nil
		},
	}
}

// NewApp собирает CLI приложение
func NewApp() *cli.App {
	return &cli.App{
		Name:     "flood-monitor",
		Usage:    "Flood monitoring camera dashboard backend",
		Version:  app.Version,
		Flags:    GlobalFlags(),
		Commands: GetCommands(),
	}
}
