// Package roiplot renders an open space region of interest in its parking-local frame.
package roiplot

import (
	"image/color"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"go.viam.com/openspace/planning"
	"go.viam.com/openspace/spatialmath"
)

const headingArrowLength = 1.5

var (
	boundaryColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	obstacleColor = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	roiColor      = color.RGBA{R: 120, G: 120, B: 200, A: 255}
	endPoseColor  = color.RGBA{R: 20, G: 150, B: 60, A: 255}
	vehicleColor  = color.RGBA{R: 20, G: 90, B: 200, A: 255}
)

// Render draws the ROI box, every constraint piece, the end pose and the vehicle.
// vehicle is in the parking-local frame.
func Render(info *planning.OpenSpaceInfo, vehicle planning.Pose) (*plot.Plot, error) {
	if info == nil {
		return nil, errors.New("no open space info to render")
	}
	p := plot.New()
	p.Title.Text = "open space roi " + info.TargetParkingSpotID
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	roi, err := plotter.NewLine(closedRect(info.ROIBox))
	if err != nil {
		return nil, errors.Wrap(err, "roi box")
	}
	roi.Color = roiColor
	roi.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(roi)
	p.Legend.Add("roi", roi)

	for i, piece := range info.ObstaclesVertices {
		line, err := plotter.NewLine(toXYs(piece))
		if err != nil {
			return nil, errors.Wrapf(err, "piece %d", i)
		}
		line.Width = vg.Points(1.5)
		if i < info.BoundaryNum {
			line.Color = boundaryColor
			if i == 0 {
				p.Legend.Add("boundary", line)
			}
		} else {
			line.Color = obstacleColor
			if i == info.BoundaryNum {
				p.Legend.Add("obstacle", line)
			}
		}
		p.Add(line)
	}

	if err := addPose(p, "end pose", info.EndPose, endPoseColor, draw.CrossGlyph{}); err != nil {
		return nil, err
	}
	if err := addPose(p, "vehicle", vehicle, vehicleColor, draw.CircleGlyph{}); err != nil {
		return nil, err
	}

	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p, nil
}

// Save renders the ROI and writes it to path; the format follows the file extension.
func Save(info *planning.OpenSpaceInfo, vehicle planning.Pose, path string) error {
	p, err := Render(info, vehicle)
	if err != nil {
		return err
	}
	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "cannot save roi plot to %q", path)
	}
	return nil
}

// addPose draws pose as a glyph with a short line along its heading.
func addPose(p *plot.Plot, name string, pose planning.Pose, c color.Color, shape draw.GlyphDrawer) error {
	at := pose.Point()
	scatter, err := plotter.NewScatter(toXYs([]r2.Point{at}))
	if err != nil {
		return errors.Wrap(err, name)
	}
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Shape = shape
	scatter.GlyphStyle.Radius = vg.Points(4)

	tip := at.Add(spatialmath.UnitFromAngle(pose.Heading).Mul(headingArrowLength))
	arrow, err := plotter.NewLine(toXYs([]r2.Point{at, tip}))
	if err != nil {
		return errors.Wrap(err, name)
	}
	arrow.Color = c
	p.Add(scatter, arrow)
	p.Legend.Add(name, scatter)
	return nil
}

func closedRect(b planning.ROIBox) plotter.XYs {
	return toXYs([]r2.Point{
		{X: b.XMin, Y: b.YMin}, {X: b.XMax, Y: b.YMin},
		{X: b.XMax, Y: b.YMax}, {X: b.XMin, Y: b.YMax},
		{X: b.XMin, Y: b.YMin},
	})
}

func toXYs(points []r2.Point) plotter.XYs {
	return lo.Map(points, func(pt r2.Point, _ int) plotter.XY {
		return plotter.XY{X: pt.X, Y: pt.Y}
	})
}
