package show

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledsegs/internal/timer"
)

type recorder struct {
	applied []string
	done    int
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		Apply: func(c Clip) error { r.applied = append(r.applied, c.Name); return nil },
		Done:  func() { r.done++ },
	}
}

func setup(t *testing.T, prog Program) (*Player, *recorder, *timer.ManualClock, *timer.Scheduler) {
	t.Helper()
	clk := timer.NewManualClock(0)
	sched := timer.NewScheduler(clk)
	rec := &recorder{}
	p := NewPlayer(sched, rec.hooks(), zerolog.Nop())
	require.NoError(t, p.Load(prog))
	return p, rec, clk, sched
}

func TestLoadRejectsEmpty(t *testing.T) {
	p := NewPlayer(timer.NewScheduler(nil), Hooks{}, zerolog.Nop())
	assert.Error(t, p.Load(Program{}))
	p.Start()
	assert.Equal(t, Idle, p.State)
}

func TestPlaysThroughOnce(t *testing.T) {
	p, rec, clk, sched := setup(t, Program{Clips: []Clip{{"a", 100}, {"b", 50}}})
	p.Start()
	assert.Equal(t, Running, p.State)
	assert.Equal(t, []string{"a"}, rec.applied)
	c, ok := p.Current()
	assert.True(t, ok)
	assert.Equal(t, "a", c.Name)

	clk.Set(99)
	sched.CheckOnce()
	assert.Equal(t, []string{"a"}, rec.applied)

	clk.Set(100)
	sched.CheckOnce()
	assert.Equal(t, []string{"a", "b"}, rec.applied)

	clk.Set(150)
	sched.CheckOnce()
	assert.Equal(t, Idle, p.State)
	assert.Equal(t, 1, rec.done)
	assert.Zero(t, sched.Active())
	_, ok = p.Current()
	assert.False(t, ok)
}

func TestLoops(t *testing.T) {
	p, rec, clk, sched := setup(t, Program{Loop: true, Clips: []Clip{{"a", 10}, {"b", 10}}})
	p.Start()
	for ms := uint64(10); ms <= 40; ms += 10 {
		clk.Set(ms)
		sched.CheckOnce()
	}
	assert.Equal(t, []string{"a", "b", "a", "b", "a"}, rec.applied)
	assert.Zero(t, rec.done)
	assert.Equal(t, 1, sched.Active())
}

func TestHoldAndNext(t *testing.T) {
	p, rec, clk, sched := setup(t, Program{Clips: []Clip{{"hold", 0}, {"b", 10}}})
	p.Start()
	clk.Set(10000)
	sched.CheckOnce()
	assert.Equal(t, []string{"hold"}, rec.applied)
	assert.Zero(t, sched.Active())

	p.Next()
	assert.Equal(t, []string{"hold", "b"}, rec.applied)
	p.Next()
	assert.Equal(t, Idle, p.State)
	assert.Zero(t, sched.Active(), "Next cancels the pending clip timer")
}

func TestStopCancelsTimer(t *testing.T) {
	p, rec, clk, sched := setup(t, Program{Clips: []Clip{{"a", 100}, {"b", 100}}})
	p.Start()
	require.Equal(t, 1, sched.Active())
	p.Stop()
	assert.Zero(t, sched.Active())
	clk.Set(500)
	sched.CheckOnce()
	assert.Equal(t, []string{"a"}, rec.applied)

	p.Start()
	assert.Equal(t, []string{"a", "a"}, rec.applied, "restarts from the top")
}
