// internal/humanoid/trajectory.go
package humanoid

import (
	"math"
	"time"
)

// PathPoint is one timed step of a pointer trajectory. Delay is the pause
// taken before the pointer is placed at Pos.
type PathPoint struct {
	Pos   Vector2D
	Delay time.Duration
}

// Trajectory is a time-ordered pointer path. The first point is always the
// start of the move and the last point the exact target; delays are never
// negative.
type Trajectory []PathPoint

// Start returns the first point of the trajectory.
func (t Trajectory) Start() Vector2D { return t[0].Pos }

// End returns the last point of the trajectory.
func (t Trajectory) End() Vector2D { return t[len(t)-1].Pos }

// Duration sums all step delays.
func (t Trajectory) Duration() time.Duration {
	var total time.Duration
	for _, p := range t {
		total += p.Delay
	}
	return total
}

// computeEaseInOutCubic provides a smooth acceleration and deceleration
// profile for movement.
func computeEaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// invertEaseInOutCubic maps path progress back to normalized time. Its
// derivative blows up at the endpoints, which is exactly what yields slow
// starts and slow landings when spatial samples are uniform.
func invertEaseInOutCubic(s float64) float64 {
	if s <= 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	if s < 0.5 {
		return math.Cbrt(s / 4.0)
	}
	return 1.0 - math.Cbrt(2.0*(1.0-s))/2.0
}

// fittsDuration derives a movement time from the profile's Fitts's Law
// coefficients, with +/- 15% jitter, clamped into the profile's move bounds.
func (g *Generator) fittsDuration(dist float64) time.Duration {
	const targetWidth = 30.0 // assumed target width in pixels
	id := math.Log2(1.0 + dist/targetWidth)
	mt := g.profile.FittsA + g.profile.FittsB*id
	mt += mt * (g.rng.Float64()*0.3 - 0.15)

	d := time.Duration(mt) * time.Millisecond
	if min := g.profile.MoveDuration.Min; min > 0 && d < min {
		d = min
	}
	if max := g.profile.MoveDuration.Max; max > 0 && d > max {
		d = max
	}
	return d
}

// controlPoints places 1-3 Bezier control points along the chord, each
// offset perpendicular to it by a bounded random magnitude. More distant
// moves earn more control points, like a longer arm swing.
func (g *Generator) controlPoints(start, end Vector2D) []Vector2D {
	dist := start.Dist(end)
	n := 1
	switch {
	case dist > 600:
		n = 3
	case dist > 150:
		n = 2
	}

	perp := end.Sub(start).Normalize().Perp()
	maxOffset := dist * g.profile.CurveDeviation

	points := make([]Vector2D, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i+1) / float64(n+1)
		anchor := start.Lerp(end, t)
		offset := (g.rng.Float64()*2.0 - 1.0) * maxOffset
		points = append(points, anchor.Add(perp.Mul(offset)))
	}
	return points
}

// deCasteljau evaluates a Bezier curve of arbitrary order at parameter t.
func deCasteljau(points []Vector2D, t float64) Vector2D {
	work := make([]Vector2D, len(points))
	copy(work, points)
	for n := len(work); n > 1; n-- {
		for i := 0; i < n-1; i++ {
			work[i] = work[i].Lerp(work[i+1], t)
		}
	}
	return work[0]
}

// Trajectory produces a curved, eased pointer path from start to end. The
// bound, when non-zero, caps the total duration; otherwise duration follows
// Fitts's Law. Coordinates must be finite (caller precondition).
func (g *Generator) Trajectory(start, end Vector2D, bound DurationRange) Trajectory {
	if start.Dist(end) < 1e-9 {
		return Trajectory{{Pos: start, Delay: 0}}
	}

	dist := start.Dist(end)
	duration := g.fittsDuration(dist)
	if bound.Max > 0 {
		duration = bound.draw(g.rng)
	}

	// More steps for longer distances, bounded so short hops stay cheap and
	// marathon moves stay responsive to cancellation.
	numSteps := int(dist / 8.0)
	if numSteps < 12 {
		numSteps = 12
	}
	if numSteps > 120 {
		numSteps = 120
	}

	curve := append(append([]Vector2D{start}, g.controlPoints(start, end)...), end)

	traj := make(Trajectory, 0, numSteps+1)
	prevTime := 0.0
	for i := 0; i <= numSteps; i++ {
		s := float64(i) / float64(numSteps)
		pos := deCasteljau(curve, s)

		// Interior points pick up drift and tremor; endpoints stay exact so
		// the pointer lands where the caller asked.
		if i > 0 && i < numSteps {
			drift := Vector2D{
				X: g.noiseX.Noise1D(s*0.8) * g.profile.PerlinAmplitude,
				Y: g.noiseY.Noise1D(s*0.8) * g.profile.PerlinAmplitude,
			}
			tremor := Vector2D{
				X: g.rng.NormFloat64() * g.profile.TremorStrength,
				Y: g.rng.NormFloat64() * g.profile.TremorStrength,
			}
			pos = pos.Add(drift).Add(tremor)
		}

		// Uniform spatial steps with delays shaped by the inverse easing
		// curve: the hand dwells at launch and landing, and sweeps through
		// the middle of the arc.
		elapsed := invertEaseInOutCubic(s)
		stepTime := elapsed - prevTime
		prevTime = elapsed

		delay := time.Duration(stepTime * float64(duration))
		// +/- 20% jitter so no two moves share a cadence.
		delay += time.Duration((g.rng.Float64()*0.4 - 0.2) * float64(delay))
		if delay < 0 {
			delay = 0
		}

		traj = append(traj, PathPoint{Pos: pos, Delay: delay})
	}
	return traj
}

// Wiggle produces a short idle trajectory around pos, bounded by the given
// pixel range. Simulates the operator resting a hand on the mouse.
func (g *Generator) Wiggle(pos Vector2D, within float64) Trajectory {
	target := pos.Add(Vector2D{
		X: (g.rng.Float64()*2.0 - 1.0) * within,
		Y: (g.rng.Float64()*2.0 - 1.0) * within,
	})
	return g.Trajectory(pos, target, DurationRange{
		Min: 150 * time.Millisecond,
		Max: 400 * time.Millisecond,
	})
}
