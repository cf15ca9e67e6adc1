package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/config"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/device"
	"github.com/milk9111/pinball/ecs/entity"
	"github.com/milk9111/pinball/ecs/render"
	"github.com/milk9111/pinball/ecs/system"
	"github.com/milk9111/pinball/logger"
	"github.com/milk9111/pinball/prefabs"
	"github.com/milk9111/pinball/scripts"
)

// Game loads the configured table in the background, then runs the
// simulation at the fixed tick rate and draws it.
type Game struct {
	cfg *config.Config
	log *zap.Logger

	cancel  context.CancelFunc
	loading <-chan assets.Result
	started time.Time
	quit    bool

	set       *assets.Set
	world     *ecs.World
	scheduler *ecs.Scheduler
	physics   *system.PhysicsSystem
	camera    *system.CameraSystem
	reactor   *system.ReactorSystem
	renderer  *render.RenderSystem
	textures  *render.Textures
	mixer     *device.Mixer
	watcher   *prefabs.Watcher

	pauseUI *ebitenui.UI
	screenW int
	screenH int
}

func NewGame(cfg *config.Config) *Game {
	ctx, cancel := context.WithCancel(context.Background())
	opts := assets.Options{
		LoadImages: cfg.Table.LoadImages,
		LoadSounds: cfg.Table.LoadSounds,
		SampleRate: cfg.Audio.SampleRate,
	}
	log := logger.Named("game")
	log.Info("loading table", zap.String("path", cfg.Table.Path))

	g := &Game{
		cfg:     cfg,
		log:     log,
		cancel:  cancel,
		loading: assets.LoadAsync(ctx, cfg.Table.Path, opts, logger.Named("assets")),
		started: time.Now(),
		mixer:   device.NewMixer(cfg.Audio),
		screenW: cfg.Window.Width,
		screenH: cfg.Window.Height,
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if g.world == nil {
		return g.pollLoad()
	}

	g.reloadRules()
	g.scheduler.Update(g.world)
	if system.Paused(g.world) {
		g.pauseUI.Update()
	}
	return nil
}

// pollLoad builds the world once the table has been loaded.
func (g *Game) pollLoad() error {
	select {
	case res, ok := <-g.loading:
		if !ok {
			return fmt.Errorf("load %s: cancelled", g.cfg.Table.Path)
		}
		if res.Err != nil {
			return res.Err
		}
		images, sounds, meshes := res.Set.Counts()
		g.log.Info("table loaded",
			zap.Duration("took", time.Since(g.started)),
			zap.Int("images", images),
			zap.Int("sounds", sounds),
			zap.Int("meshes", meshes),
		)
		return g.start(res.Set)
	default:
		return nil
	}
}

func (g *Game) start(set *assets.Set) error {
	id := assets.TableID(g.cfg.Table.Path)
	script := scripts.DefaultRegistry(logger.Named("scripts")).Resolve(id)

	w := ecs.NewWorld()
	if _, err := entity.NewCamera(w); err != nil {
		return err
	}
	lvl := entity.Level{ID: id, BallStart: "BallRelease"}
	if dr, ok := script.(*scripts.DrainRelease); ok {
		lvl.BallStart = dr.Rules().ReleaseKicker
	}
	if err := entity.SpawnLevel(w, set, lvl); err != nil {
		return err
	}

	g.set = set
	g.world = w
	g.mixer.SetSounds(set)
	g.textures = render.NewTextures(set)
	g.renderer = render.NewRenderSystem(g.textures)
	g.physics = system.NewPhysicsSystem(g.cfg.Physics)
	g.camera = system.NewCameraSystem(g.screenW, g.screenH)
	g.reactor = system.NewReactorSystem(script, set, rand.New(rand.NewSource(time.Now().UnixNano())))

	g.scheduler = ecs.NewScheduler(system.NewInputSystem(device.NewControls(device.DefaultBindings())))
	if g.cfg.Debug {
		g.scheduler.Add(system.NewBallGrabSystem())
	}
	g.scheduler.Add(system.NewFlipperSystem())
	g.scheduler.Add(system.NewPlungerSystem())
	g.scheduler.Add(g.physics)
	g.scheduler.Add(g.reactor)
	g.scheduler.Add(system.NewRollingSoundSystem(g.mixer))
	g.scheduler.Add(system.NewAudioSystem(g.mixer))
	g.scheduler.Add(system.NewTTLSystem())
	g.scheduler.Add(g.camera)

	if g.cfg.Table.WatchRules {
		g.watchRules()
	}
	return nil
}

func (g *Game) watchRules() {
	var dirs []string
	for _, dir := range []string{"prefabs", filepath.Join("prefabs", "tables")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		g.log.Warn("rules watch requested but no prefabs directory found")
		return
	}
	watcher, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		g.log.Warn("rules watch unavailable", zap.Error(err))
		return
	}
	g.watcher = watcher
}

// reloadRules applies prefab edits made on disk since the last tick.
func (g *Game) reloadRules() {
	if g.watcher == nil {
		return
	}
	changed := g.watcher.Poll()
	if len(changed) == 0 {
		return
	}
	g.log.Info("prefabs changed", zap.Strings("files", changed))
	entity.ReloadSpecs()
	if r, ok := g.reactor.Script().(scripts.Reloadable); ok {
		if err := r.Reload(); err != nil {
			g.log.Warn("reload table rules", zap.Error(err))
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.world == nil {
		dots := int(time.Since(g.started)/(300*time.Millisecond)) % 4
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Loading %s%s", filepath.Base(g.cfg.Table.Path), "...."[:dots]))
		return
	}

	g.renderer.Draw(g.world, screen)
	if g.cfg.Debug {
		render.DrawPhysicsDebug(g.physics.Space(), g.world, screen)
		render.DrawTableDebug(g.world, screen)
	}
	if system.Paused(g.world) {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	if g.camera != nil {
		g.camera.SetScreenSize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) Resume() {
	if g.world != nil && system.Paused(g.world) {
		system.TogglePause(g.world)
	}
}

func (g *Game) ToggleMute() bool {
	muted := !g.mixer.Muted()
	g.mixer.SetMuted(muted)
	return muted
}

func (g *Game) Quit() {
	g.quit = true
}

// Close stops loading, audio and the rules watcher.
func (g *Game) Close() {
	g.cancel()
	g.mixer.Close()
	if g.textures != nil {
		g.textures.Dispose()
	}
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Warn("close rules watcher", zap.Error(err))
		}
	}
}
