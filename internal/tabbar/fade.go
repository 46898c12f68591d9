package tabbar

import "time"

// FadeState is the visibility phase of a bar or render layer.
type FadeState int

const (
	Off FadeState = iota
	FadeIn
	On
	FadeOut
)

func (s FadeState) String() string {
	switch s {
	case Off:
		return "off"
	case FadeIn:
		return "fade-in"
	case On:
		return "on"
	case FadeOut:
		return "fade-out"
	default:
		return "unknown"
	}
}

// Fade is a countdown between Off and On.
type Fade struct {
	State     FadeState
	Remaining time.Duration
	Duration  time.Duration
}

// Show starts fading in. A fade-out in progress reverses from its current
// alpha.
func (f *Fade) Show(d time.Duration) {
	switch f.State {
	case On, FadeIn:
		return
	case FadeOut:
		f.State = FadeIn
		f.Remaining = f.Duration - f.Remaining
	default:
		f.State = FadeIn
		f.Duration = d
		f.Remaining = d
	}
	if f.Remaining <= 0 {
		f.State = On
		f.Remaining = 0
	}
}

// Hide starts fading out. A fade-in in progress reverses from its current
// alpha.
func (f *Fade) Hide(d time.Duration) {
	switch f.State {
	case Off, FadeOut:
		return
	case FadeIn:
		f.State = FadeOut
		f.Remaining = f.Duration - f.Remaining
	default:
		f.State = FadeOut
		f.Duration = d
		f.Remaining = d
	}
	if f.Remaining <= 0 {
		f.State = Off
		f.Remaining = 0
	}
}

// Step counts the fade down and reports whether it is still animating.
func (f *Fade) Step(dt time.Duration) bool {
	if f.State != FadeIn && f.State != FadeOut {
		return false
	}
	f.Remaining -= dt
	if f.Remaining > 0 {
		return true
	}
	f.Remaining = 0
	if f.State == FadeIn {
		f.State = On
	} else {
		f.State = Off
	}
	return false
}

// Alpha maps the fade to an opacity in [0, 1].
func (f *Fade) Alpha() float64 {
	switch f.State {
	case On:
		return 1
	case FadeIn:
		if f.Duration <= 0 {
			return 1
		}
		return 1 - float64(f.Remaining)/float64(f.Duration)
	case FadeOut:
		if f.Duration <= 0 {
			return 0
		}
		return float64(f.Remaining) / float64(f.Duration)
	default:
		return 0
	}
}

// Visible reports whether anything of the fade is drawn.
func (f *Fade) Visible() bool { return f.State != Off }

// Show fades the bar and its layers in.
func (b *Bar) Show(d time.Duration) {
	b.State.Show(d)
	b.Background.Show(d)
	b.Text.Show(d)
	b.Selection.Show(d)
}

// Hide fades the bar and its layers out.
func (b *Bar) Hide(d time.Duration) {
	b.State.Hide(d)
	b.Background.Hide(d)
	b.Text.Hide(d)
	b.Selection.Hide(d)
}

// StepFades advances every fade and reports whether any is still running.
func (b *Bar) StepFades(dt time.Duration) bool {
	a := b.State.Step(dt)
	c := b.Background.Step(dt)
	d := b.Text.Step(dt)
	e := b.Selection.Step(dt)
	return a || c || d || e
}
