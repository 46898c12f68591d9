package tabbar

import "math"

const (
	// springOmega is the natural frequency of every spring, per millisecond.
	// A displacement of a full screen width settles in roughly 400ms.
	springOmega = 0.03

	// Below these the spring is snapped to rest.
	springEpsilon   = 0.5
	velocityEpsilon = 0.01
)

// spring is a critically damped mass pulled toward rest.
type spring struct {
	pos  float64
	vel  float64
	rest float64
}

// step advances the spring by dt milliseconds using the closed-form
// solution, so large steps stay stable. It reports whether the spring is
// still moving.
func (s *spring) step(dt float64) bool {
	x := s.pos - s.rest
	v := s.vel
	if math.Abs(x) < springEpsilon && math.Abs(v) < velocityEpsilon {
		s.pos, s.vel = s.rest, 0
		return false
	}
	if dt <= 0 {
		return true
	}

	e := math.Exp(-springOmega * dt)
	c := v + springOmega*x
	x = (x + c*dt) * e
	v = (v - springOmega*c*dt) * e

	if math.Abs(x) < springEpsilon && math.Abs(v) < velocityEpsilon {
		s.pos, s.vel = s.rest, 0
		return false
	}
	s.pos = s.rest + x
	s.vel = v
	return true
}

func (s *spring) snap() {
	s.pos, s.vel = s.rest, 0
}

func (s *spring) settled() bool {
	return s.pos == s.rest && s.vel == 0
}
