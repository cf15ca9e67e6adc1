package entity

import (
	"sync"

	"go.uber.org/zap"

	"github.com/milk9111/pinball/logger"
	"github.com/milk9111/pinball/prefabs"
)

// Specs bundles the prefab tuning used by the spawners.
type Specs struct {
	Flipper prefabs.FlipperSpec
	Plunger prefabs.PlungerSpec
	Bumper  prefabs.BumperSpec
	Table   prefabs.TableSpec
}

var (
	specsMu sync.Mutex
	specs   *Specs
)

// LoadSpecs returns the cached prefab specs, loading them on first use. A
// prefab that fails to load falls back to built-in defaults.
func LoadSpecs() *Specs {
	specsMu.Lock()
	defer specsMu.Unlock()
	if specs == nil {
		specs = loadSpecs()
	}
	return specs
}

// ReloadSpecs drops the cache so the next spawn reads the prefab files again.
func ReloadSpecs() {
	specsMu.Lock()
	specs = nil
	specsMu.Unlock()
}

func loadSpecs() *Specs {
	s := &Specs{
		Flipper: defaultFlipperSpec(),
		Plunger: defaultPlungerSpec(),
		Bumper:  defaultBumperSpec(),
		Table:   defaultTableSpec(),
	}
	if f, err := prefabs.LoadFlipperSpec(); err == nil {
		s.Flipper = *f
	} else {
		logger.Warn("flipper prefab unavailable, using defaults", zap.Error(err))
	}
	if p, err := prefabs.LoadPlungerSpec(); err == nil {
		s.Plunger = *p
	} else {
		logger.Warn("plunger prefab unavailable, using defaults", zap.Error(err))
	}
	if b, err := prefabs.LoadBumperSpec(); err == nil {
		s.Bumper = *b
	} else {
		logger.Warn("bumper prefab unavailable, using defaults", zap.Error(err))
	}
	if t, err := prefabs.LoadTableSpec(); err == nil {
		s.Table = *t
	} else {
		logger.Warn("table prefab unavailable, using defaults", zap.Error(err))
	}
	return s
}

func defaultFlipperSpec() prefabs.FlipperSpec {
	return prefabs.FlipperSpec{
		Thickness:      0.018,
		Mass:           1,
		Elasticity:     0.4,
		Friction:       0.6,
		EnabledTorque:  1.5,
		DisabledTorque: -0.5,
		AnchorRadius:   0.005,
	}
}

func defaultPlungerSpec() prefabs.PlungerSpec {
	return prefabs.PlungerSpec{
		Mass:         0.2,
		Elasticity:   0.5,
		Compliance:   0.002,
		Damping:      20,
		PullRate:     20,
		MaxForce:     50,
		GuideWidth:   0.010,
		GuideHeight:  0.005,
		GuideMargin:  0.002,
		GuideOffset:  0.010,
		StopHeight:   0.01,
		StopOffset:   0.004,
		PullSound:    "plungerpull",
		ReleaseSound: "plunger",
	}
}

func defaultBumperSpec() prefabs.BumperSpec {
	return prefabs.BumperSpec{
		ForceScale: 0.008,
		CapMargin:  0.015,
		CapAlpha:   210,
		Sound:      prefabs.SoundSpec{Name: "fx_bumper%d", Variants: 4},
	}
}

func defaultTableSpec() prefabs.TableSpec {
	return prefabs.TableSpec{
		WallThickness: 0.01905,
		Gravity:       9.81 * 0.12192,
		BallHitSound:  "fx_collide",
		BallHitVolume: 0.05,
	}
}
