package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/celskeggs/epochplot/chart"
	"github.com/celskeggs/epochplot/chart/live"
	"github.com/urfave/cli/v3"
	"io"
	"os"
)

var errArgCount = errors.New("incorrect number of arguments, terminating...")

// exitArgCount is -1 as passed to os.Exit, which Unix reports as 255.
const exitArgCount = -1

// DisplayFunc blocks until the viewer is closed.
type DisplayFunc func(ctx context.Context, source live.Refresher, opts live.Options) error

func newCommand(display DisplayFunc) *cli.Command {
	defaults := live.DefaultOptions()
	return &cli.Command{
		Name:      "epochplot",
		Usage:     "live chart of training accuracy and loss; deletes the CSV once the window closes",
		ArgsUsage: "<metrics.csv>",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "time between redraws",
				Value: defaults.Interval,
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "chart and window title",
				Value: chart.DefaultStyle().Title,
			},
			&cli.IntFlag{
				Name:  "dpi",
				Usage: "resolution used to render the chart",
				Value: defaults.DPI,
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "initial window width in pixels",
				Value: defaults.Width,
			},
			&cli.IntFlag{
				Name:  "height",
				Usage: "initial window height in pixels",
				Value: defaults.Height,
			},
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "directory where the E key saves " + live.ExportName,
			},
			&cli.BoolFlag{
				Name:  "mark-best",
				Usage: "mark the highest accuracy and lowest loss",
			},
			&cli.BoolFlag{
				Name:  "keep",
				Usage: "do not delete the CSV file on exit",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errArgCount
			}
			path := cmd.Args().First()

			if cmd.Duration("interval") <= 0 {
				return fmt.Errorf("invalid interval: %v", cmd.Duration("interval"))
			}
			for _, name := range []string{"dpi", "width", "height"} {
				if cmd.Int(name) <= 0 {
					return fmt.Errorf("invalid %s: %d", name, cmd.Int(name))
				}
			}

			style := chart.DefaultStyle()
			style.Title = cmd.String("title")
			style.MarkBest = cmd.Bool("mark-best")

			opts := live.Options{
				Title:     style.Title,
				Width:     cmd.Int("width"),
				Height:    cmd.Int("height"),
				DPI:       cmd.Int("dpi"),
				Interval:  cmd.Duration("interval"),
				ExportDir: cmd.String("export-dir"),
			}
			if err := display(ctx, &chart.Source{Path: path, Style: style}, opts); err != nil {
				return err
			}
			if cmd.Bool("keep") {
				return nil
			}
			return os.Remove(path)
		},
	}
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, cmd *cli.Command, args []string, stderr io.Writer) int {
	cmd.ErrWriter = stderr
	if err := cmd.Run(ctx, args); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		if errors.Is(err, errArgCount) {
			return exitArgCount
		}
		return 1
	}
	return 0
}
