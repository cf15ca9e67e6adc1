// Package scripts holds the per-table rules run by the gameplay reactor.
package scripts

import (
	"math/rand"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
)

// Context is what a script may touch while handling an event.
type Context struct {
	World  *ecs.World
	Assets *assets.Set
	Rand   *rand.Rand
	// SpawnBall creates a ball at (x, y) in simulation meters.
	SpawnBall func(id int, x, y float64) (ecs.Entity, error)
}

// Intn returns a random int in [0, n) from the context source, or 0 when
// there is none.
func (c *Context) Intn(n int) int {
	if c == nil || c.Rand == nil || n <= 0 {
		return 0
	}
	return c.Rand.Intn(n)
}

// Script is the native rule set of one table.
type Script interface {
	Name() string
	// OnEnter runs once after the level has been spawned.
	OnEnter(ctx *Context) error
	// OnBallKicker runs when a ball starts touching a kicker.
	OnBallKicker(ctx *Context, ball, kicker ecs.Entity)
}

// Reloadable scripts can re-read their rule files between ticks.
type Reloadable interface {
	Reload() error
}

type noopScript struct {
	id string
}

func (s noopScript) Name() string { return s.id }

func (noopScript) OnEnter(*Context) error { return nil }

func (noopScript) OnBallKicker(*Context, ecs.Entity, ecs.Entity) {}
