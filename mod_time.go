package fur

import (
	"time"
)

// Time is the frame clock. Dt and Elapsed are scaled by Scale; RealDt is not.
type Time struct {
	Time    time.Time
	Dt      time.Duration
	RealDt  time.Duration
	Elapsed time.Duration
	Scale   float64
	Frame   uint64
}

// TimeModule publishes Time. A zero Scale runs at wall-clock speed.
type TimeModule struct {
	Scale float64
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	scale := mod.Scale
	if scale <= 0 {
		scale = 1
	}
	cmd.AddResources(&Time{
		Time:  time.Now(),
		Scale: scale,
	})
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func (t *Time) tick(now time.Time) {
	t.RealDt = now.Sub(t.Time)
	t.Dt = time.Duration(float64(t.RealDt) * t.Scale)
	t.Elapsed += t.Dt
	t.Time = now
	t.Frame++
}

func timeSystem(timeResource *Time) {
	timeResource.tick(time.Now())
}
