package cli

import (
	"bytes"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"go.viam.com/openspace/planning"
	"go.viam.com/openspace/scenario"
)

// batchResult is the outcome of one scene in a batch.
type batchResult struct {
	path  string
	frame *planning.Frame
	err   error
	logs  bytes.Buffer
}

// BatchAction is the corresponding Action for 'batch'. Every scene runs concurrently with its own
// decider; a scene the decider fails on is reported in the table while a scene that cannot be
// loaded fails the whole batch.
func BatchAction(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New("batch requires at least one scene file")
	}
	jobs := c.Int(jobsFlag)
	if jobs < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", jobsFlag, jobs)
	}
	level, err := logLevel(c)
	if err != nil {
		return err
	}

	results := make([]*batchResult, len(paths))
	errs, ctx := errgroup.WithContext(c.Context)
	errs.SetLimit(jobs)
	for i, path := range paths {
		res := &batchResult{path: path}
		results[i] = res
		errs.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scene, err := scenario.Load(res.path)
			if err != nil {
				return err
			}
			res.frame, res.err = execute(scene, 1, newLogger(c, &res.logs, level))
			return nil
		})
	}
	if err := errs.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.logs.Len() > 0 {
			//nolint:errcheck
			c.App.ErrWriter.Write(res.logs.Bytes())
		}
		if res.err != nil {
			failed++
		}
	}
	printf(c.App.Writer, "%s", batchTable(results))
	if failed > 0 {
		return errors.Errorf("%d of %d scenes failed", failed, len(results))
	}
	return nil
}

func batchTable(results []*batchResult) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Scene", "Spot", "Status", "End Pose", "Pieces"})
	for _, res := range results {
		if res.err != nil {
			t.AppendRow(table.Row{res.path, "", res.err.Error(), "", ""})
			continue
		}
		info := &res.frame.OpenSpaceInfo
		t.AppendRow(table.Row{
			res.path,
			info.TargetParkingSpotID,
			"ok",
			info.EndPose.String(),
			fmt.Sprintf("%d (%d boundary)", info.ObstaclesNum, info.BoundaryNum),
		})
	}
	return t.Render()
}
