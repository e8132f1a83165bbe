// Package main is the roi command line tool.
package main

import (
	"os"

	"go.viam.com/openspace/cli"
	"go.viam.com/openspace/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.NewLogger("roi").Error(err)
		os.Exit(1)
	}
}
