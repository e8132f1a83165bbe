package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/openspace/logging"
	"go.viam.com/openspace/planning"
	"go.viam.com/openspace/planning/openspace"
	"go.viam.com/openspace/roiplot"
	"go.viam.com/openspace/scenario"
	"go.viam.com/openspace/utils"
)

// ComputeAction is the corresponding Action for 'compute'.
func ComputeAction(c *cli.Context) error {
	cycles := c.Int(cyclesFlag)
	if cycles < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", cyclesFlag, cycles)
	}
	frame, err := runScene(c, cycles)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", summaryTable(frame))
	printf(c.App.Writer, "%s", constraintsTable(&frame.OpenSpaceInfo))
	return nil
}

// PlotAction is the corresponding Action for 'plot'.
func PlotAction(c *cli.Context) error {
	frame, err := runScene(c, 1)
	if err != nil {
		return err
	}
	info := &frame.OpenSpaceInfo
	out := c.String(outFlag)
	if err := roiplot.Save(info, frame.LocalVehiclePose(), out); err != nil {
		return err
	}
	printf(c.App.Writer, "wrote roi plot of %q to %s", info.TargetParkingSpotID, out)
	return nil
}

// SchemaAction is the corresponding Action for 'schema'.
func SchemaAction(c *cli.Context) error {
	data, err := json.MarshalIndent(scenario.Schema(), "", "  ")
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", data)
	return nil
}

// runScene loads the --scene file and runs the decider for the given number of cycles,
// returning the frame of the last one.
func runScene(c *cli.Context, cycles int) (*planning.Frame, error) {
	level, err := logLevel(c)
	if err != nil {
		return nil, err
	}
	scene, err := scenario.Load(c.String(sceneFlag))
	if err != nil {
		return nil, err
	}
	return execute(scene, cycles, newLogger(c, c.App.ErrWriter, level))
}

// execute runs a fresh decider over the scene for the given number of cycles.
func execute(scene *scenario.Scene, cycles int, logger logging.Logger) (*planning.Frame, error) {
	m, err := scene.Map()
	if err != nil {
		return nil, err
	}
	cfg, err := scene.DeciderConfig()
	if err != nil {
		return nil, err
	}
	decider, err := openspace.NewDecider(*cfg, m, logger)
	if err != nil {
		return nil, err
	}

	pctx := planning.NewContext()
	var frame *planning.Frame
	for seq := 1; seq <= cycles; seq++ {
		frame, err = scene.Frame(uint32(seq))
		if err != nil {
			return nil, err
		}
		if err := decider.Execute(pctx, frame); err != nil {
			return nil, errors.Wrapf(err, "cycle %d", seq)
		}
	}
	return frame, nil
}

// logLevel is the --log-level level, or debug when --debug is set.
func logLevel(c *cli.Context) (logging.Level, error) {
	if c.Bool(debugFlag) {
		return logging.DEBUG, nil
	}
	return logging.LevelFromString(c.String(logLevelFlag))
}

const logFileKey = "logFile"

// openLogFile opens the --log-file appender shared by every logger of the run.
func openLogFile(c *cli.Context) error {
	if path := c.String(logFileFlag); path != "" {
		c.App.Metadata[logFileKey] = logging.NewFileAppender(path, 16)
	}
	return nil
}

func closeLogFile(c *cli.Context) error {
	if appender, ok := c.App.Metadata[logFileKey].(*logging.FileAppender); ok {
		return appender.Close()
	}
	return nil
}

// newLogger logs to w and to the --log-file, if any.
func newLogger(c *cli.Context, w io.Writer, level logging.Level) logging.Logger {
	logger := logging.NewBlankLogger("roi")
	logger.AddAppender(logging.NewWriterAppender(w))
	if appender, ok := c.App.Metadata[logFileKey].(*logging.FileAppender); ok {
		logger.AddAppender(appender)
	}
	logger.SetLevel(level)
	return logger
}

func summaryTable(frame *planning.Frame) string {
	info := &frame.OpenSpaceInfo
	roi := info.ROIBox
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Cycle", "Spot", "Lane", "Origin", "ROI", "Vehicle", "End Pose", "Pieces"})
	t.AppendRow(table.Row{
		frame.SequenceNum,
		info.TargetParkingSpotID,
		info.TargetParkingLane.ID(),
		info.Origin.String(),
		fmt.Sprintf("X:[%.3f, %.3f], Y:[%.3f, %.3f]", roi.XMin, roi.XMax, roi.YMin, roi.YMax),
		poseString(frame.LocalVehiclePose()),
		info.EndPose.String(),
		fmt.Sprintf("%d (%d boundary)", info.ObstaclesNum, info.BoundaryNum),
	})
	return t.Render()
}

func constraintsTable(info *planning.OpenSpaceInfo) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Piece", "Source", "A", "b"})
	row := 0
	for piece, edges := range info.ObstaclesEdgesNum {
		source := "boundary"
		if piece >= info.BoundaryNum {
			source = "obstacle"
		}
		for e := 0; e < edges; e++ {
			t.AppendRow(table.Row{
				row,
				piece,
				source,
				fmt.Sprintf("[%.4f, %.4f]", info.ObstaclesA.At(row, 0), info.ObstaclesA.At(row, 1)),
				fmt.Sprintf("%.4f", info.ObstaclesB.AtVec(row)),
			})
			row++
		}
	}
	return t.Render()
}

// poseString prints a local pose with its heading in degrees.
func poseString(p planning.Pose) string {
	return fmt.Sprintf("X:%.3f, Y:%.3f, Heading:%.1f°", p.X, p.Y, utils.RadToDeg(p.Heading))
}

func printf(w io.Writer, format string, a ...interface{}) {
	if w == nil {
		return
	}
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
