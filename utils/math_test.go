package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in, out float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{-math.Pi / 2, -math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{math.Pi, -math.Pi},
	}
	for _, c := range cases {
		test.That(t, NormalizeAngle(c.in), test.ShouldAlmostEqual, c.out, 1e-12)
	}
}

func TestAngleDiff(t *testing.T) {
	test.That(t, AngleDiff(0.1, -0.1), test.ShouldAlmostEqual, -0.2, 1e-12)
	test.That(t, AngleDiff(math.Pi-0.1, -math.Pi+0.1), test.ShouldAlmostEqual, 0.2, 1e-12)
}

func TestConversions(t *testing.T) {
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, Clamp(5, 0, 2), test.ShouldEqual, 2)
	test.That(t, Clamp(-5, 0, 2), test.ShouldEqual, 0)
	test.That(t, Clamp(1, 0, 2), test.ShouldEqual, 1)
}
