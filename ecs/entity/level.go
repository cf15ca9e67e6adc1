package entity

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/logger"
	"github.com/milk9111/pinball/units"
	"github.com/milk9111/pinball/vpx"
)

// Level selects the table being spawned.
type Level struct {
	// ID is the table identifier used to pick its rules.
	ID string
	// BallStart names the kicker the first ball starts on. The ball starts
	// at the table center when it is empty or not found.
	BallStart string
}

// SpawnItem dispatches one game item to its spawner. Item kinds without a
// spawner return ok false.
func SpawnItem(w *ecs.World, item vpx.GameItem, set *assets.Set, tf units.Transform) (e ecs.Entity, ok bool, err error) {
	switch it := item.(type) {
	case *vpx.Wall:
		e, err = NewWall(w, it, set, tf)
	case *vpx.Rubber:
		e, err = NewRubber(w, it, set, tf)
	case *vpx.Bumper:
		e, err = NewBumper(w, it, set, tf)
	case *vpx.Kicker:
		e, err = NewKicker(w, it, set, tf)
	case *vpx.Trigger:
		e, err = NewTrigger(w, it, set, tf)
	case *vpx.Light:
		e, err = NewLight(w, it, set, tf)
	case *vpx.Flipper:
		e, err = NewFlipper(w, it, set, tf)
	case *vpx.Plunger:
		e, err = NewPlunger(w, it, set, tf)
	default:
		return 0, false, nil
	}
	return e, true, err
}

// SpawnLevel spawns the table, every supported game item in file order and
// the first ball, then marks the level loaded. It is all or nothing: on error
// every entity created so far is destroyed again.
func SpawnLevel(w *ecs.World, set *assets.Set, lvl Level) error {
	if w == nil {
		return fmt.Errorf("spawn level: world is nil")
	}
	if set == nil || set.Table() == nil {
		return fmt.Errorf("spawn level: no table loaded")
	}

	before := make(map[ecs.Entity]struct{})
	for _, e := range ecs.Entities(w) {
		before[e] = struct{}{}
	}
	rollback := func() {
		for _, e := range ecs.Entities(w) {
			if _, ok := before[e]; !ok {
				ecs.DestroyEntity(w, e)
			}
		}
	}

	table := set.Table()
	tf := units.NewTransform(table.Bounds)

	tableEntity, err := NewTable(w, set, lvl.ID)
	if err != nil {
		rollback()
		return fmt.Errorf("spawn level: %w", err)
	}

	var (
		spawned int
		skipped = make(map[vpx.ItemKind]int)
		start   = units.Vec2{}
	)
	for _, item := range table.GameItems {
		_, ok, err := SpawnItem(w, item, set, tf)
		if err != nil {
			rollback()
			return fmt.Errorf("spawn level: item %q: %w", item.ItemName(), err)
		}
		if !ok {
			skipped[item.Kind()]++
			continue
		}
		spawned++
		if k, isKicker := item.(*vpx.Kicker); isKicker && lvl.BallStart != "" && strings.EqualFold(k.Name, lvl.BallStart) {
			start = tf.Point(k.Center.X, k.Center.Y)
		}
	}
	for kind, n := range skipped {
		logger.Debug("skipped game items", zap.Stringer("kind", kind), zap.Int("count", n))
	}

	if _, err := NewBall(w, set, 0, start.X, start.Y); err != nil {
		rollback()
		return fmt.Errorf("spawn level: %w", err)
	}

	if err := ecs.Add(w, tableEntity, component.LevelLoadedComponent.Kind(), &component.LevelLoaded{}); err != nil {
		rollback()
		return fmt.Errorf("spawn level: mark loaded: %w", err)
	}

	logger.Info("level spawned",
		zap.String("table", lvl.ID),
		zap.Int("items", spawned),
		zap.Int("entities", len(ecs.Entities(w))-len(before)),
	)
	return nil
}

// DestroyLevel removes every entity except the camera entity, which also
// carries the player input.
func DestroyLevel(w *ecs.World) {
	for _, e := range ecs.Entities(w) {
		if ecs.Has(w, e, component.CameraTagComponent.Kind()) {
			continue
		}
		ecs.DestroyEntity(w, e)
	}
}
