package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"flood-monitor/internal/controller"
	"flood-monitor/internal/registry"
	"flood-monitor/internal/view"
)

// GetCamerasCommand возвращает команду вывода списка камер
func GetCamerasCommand() *cli.Command {
	return &cli.Command{
		Name:  "cameras",
		Usage: "Print the filtered and sorted camera list",
		Description: `Examples:
  flood-monitor cameras --filter flood --sort desc
  flood-monitor cameras --query 广场 --output json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Substring of camera name or location",
			},
			&cli.StringFlag{
				Name:  "filter",
				Value: string(view.CategoryAll),
				Usage: "all, online or flood",
			},
			&cli.StringFlag{
				Name:  "sort",
				Value: "none",
				Usage: "asc, desc or none (applies to --filter flood)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "table",
				Usage:   "table, json or yaml",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer ctx.Logger.Sync()

			q, err := view.ParseQuery(c.String("query"), c.String("filter"), c.String("sort"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			reg, err := registry.Load(ctx.Config.Registry)
			if err != nil {
				return err
			}

			cameras := controller.NewCameraService(ctx.Logger, reg).List(q)
			ctx.Logger.Debug("Cameras derived", zap.Int("count", len(cameras)))

			return printCameras(c.App.Writer, c.String("output"), cameras)
		},
	}
}

func printCameras(w io.Writer, format string, cameras []controller.CameraView) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cameras)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(cameraRecords(cameras))
	default:
		return printCameraTable(w, cameras)
	}
}

func printCameraTable(w io.Writer, cameras []controller.CameraView) error {
	if len(cameras) == 0 {
		_, err := fmt.Fprintln(w, "No cameras found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tSTATUS\tFLOOD\tDEPTH")
	fmt.Fprintln(tw, "--\t----\t--------\t------\t-----\t-----")
	for _, cam := range cameras {
		flood := cam.FloodText
		if flood == "" {
			flood = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			cam.ID, cam.Name, cam.Location, cam.StatusText, flood, cam.Analysis.WaterDepth)
	}
	return tw.Flush()
}

// cameraRecords - записи без полей отображения, в формате файла реестра
func cameraRecords(cameras []controller.CameraView) map[string][]registry.CameraRecord {
	out := make([]registry.CameraRecord, 0, len(cameras))
	for _, cam := range cameras {
		out = append(out, cam.CameraRecord)
	}
	return map[string][]registry.CameraRecord{"cameras": out}
}
