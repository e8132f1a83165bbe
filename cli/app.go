// Package cli contains the roi command line tool, which runs the open space roi decider over
// scene files.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	debugFlag    = "debug"
	logLevelFlag = "log-level"
	logFileFlag  = "log-file"
	sceneFlag    = "scene"
	cyclesFlag   = "cycles"
	outFlag      = "out"
	jobsFlag     = "jobs"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	sceneFlagDef := &cli.StringFlag{
		Name:     sceneFlag,
		Aliases:  []string{"s"},
		Usage:    "load the parking scene from `FILE` (.json, .yaml or .yml)",
		Required: true,
	}
	return &cli.App{
		Name:            "roi",
		Usage:           "compute open space parking regions of interest",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  logLevelFlag,
				Usage: "minimum level of decider logs written to stderr (debug, info, warn, error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  logFileFlag,
				Usage: "also write decider logs to `FILE`, rotated once it reaches 16MB",
			},
		},
		Before: openLogFile,
		After:  closeLogFile,
		Commands: []*cli.Command{
			{
				Name:      "compute",
				Usage:     "run the roi decider over a scene and print the constraints",
				UsageText: "roi compute --scene <scene-file> [--cycles <n>]",
				Flags: []cli.Flag{
					sceneFlagDef,
					&cli.IntFlag{
						Name:  cyclesFlag,
						Usage: "number of planning cycles to run, reusing the resolved target between them",
						Value: 1,
					},
				},
				Action: ComputeAction,
			},
			{
				Name:      "plot",
				Usage:     "run the roi decider over a scene and plot the result",
				UsageText: "roi plot --scene <scene-file> --out <image-file>",
				Flags: []cli.Flag{
					sceneFlagDef,
					&cli.StringFlag{
						Name:     outFlag,
						Aliases:  []string{"o"},
						Usage:    "write the plot to `FILE`, the format follows its extension (.png, .svg, .pdf)",
						Required: true,
					},
				},
				Action: PlotAction,
			},
			{
				Name:      "batch",
				Usage:     "run the roi decider over several scenes concurrently and summarize them",
				UsageText: "roi batch [--jobs <n>] <scene-file>...",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    jobsFlag,
						Aliases: []string{"j"},
						Usage:   "maximum number of scenes processed at once",
						Value:   4,
					},
				},
				Action: BatchAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of scene files",
				Action: SchemaAction,
			},
		},
	}
}
