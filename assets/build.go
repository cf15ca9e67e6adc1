package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/pinball/logger"
	"github.com/milk9111/pinball/mesh"
	"github.com/milk9111/pinball/vpx"
)

// Options selects which embedded assets Build decodes.
type Options struct {
	LoadImages bool
	LoadSounds bool
	SampleRate int
}

func DefaultOptions() Options {
	return Options{LoadImages: true, LoadSounds: true, SampleRate: 44100}
}

// Build resolves every image, sound and wall or rubber mesh of table exactly
// once. Images and sounds that fail to decode are logged and left out. Image
// names the table references but never defines fail the build with one
// LookupError each. A cancelled ctx discards all work and returns ctx.Err().
func Build(ctx context.Context, table *vpx.Table, opts Options, log *zap.Logger) (*Set, error) {
	log = logger.OrNop(log)
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultOptions().SampleRate
	}

	set := &Set{
		table:  table,
		opts:   opts,
		images: make(map[string]image.Image),
		sounds: make(map[string]*Sound),
		meshes: make(map[string]*mesh.Mesh),
	}

	if opts.LoadImages {
		images, err := decodeAll(ctx, table.Images, func(img *vpx.Image) (image.Image, error) {
			return decodeImage(img)
		})
		if err != nil {
			return nil, err
		}
		for i := range table.Images {
			img := &table.Images[i]
			if images[i].err != nil {
				log.Warn("skipping image", zap.Error(&AssetDecodeError{Kind: "image", Name: img.Name, Err: images[i].err}))
				continue
			}
			set.images[normalize(img.Name, "")] = images[i].value
		}
	}

	if opts.LoadSounds {
		sounds, err := decodeAll(ctx, table.Sounds, func(s *vpx.Sound) (*Sound, error) {
			return decodeSound(s, opts.SampleRate)
		})
		if err != nil {
			return nil, err
		}
		for i := range table.Sounds {
			snd := &table.Sounds[i]
			if sounds[i].err != nil {
				log.Warn("skipping sound", zap.Error(&AssetDecodeError{Kind: "sound", Name: snd.Name, Err: sounds[i].err}))
				continue
			}
			set.sounds[normalize(snd.Name, "")] = sounds[i].value
		}
	}

	for _, item := range table.GameItems {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch v := item.(type) {
		case *vpx.Wall:
			m := mesh.FromDragPoints(v.DragPoints, v.HeightTop, table.Bounds)
			checkOutline(log, "wall", v.Name, m)
			set.meshes[mesh.WallKey(v.Name)] = m
		case *vpx.Rubber:
			m := mesh.Ring(v.DragPoints, v.Thickness, v.Height, table.Bounds)
			checkOutline(log, "rubber", v.Name, m)
			set.meshes[mesh.RubberKey(v.Name)] = m
		}
	}

	var unresolved []error
	for _, err := range table.CheckReferences() {
		var ref *vpx.ReferenceError
		if errors.As(err, &ref) && ref.Kind == "image" {
			unresolved = append(unresolved, fmt.Errorf("%s: %w", ref.Item, &LookupError{Kind: "image", Name: ref.Name}))
			continue
		}
		// Missing materials render magenta.
		log.Warn("unresolved table reference", zap.Error(err))
	}
	if len(unresolved) > 0 {
		return nil, errors.Join(unresolved...)
	}

	images, sounds, meshes := set.Counts()
	log.Info("table assets resolved",
		zap.Int("images", images),
		zap.Int("sounds", sounds),
		zap.Int("meshes", meshes),
	)
	return set, nil
}

// checkOutline logs geometry that ear clipping cannot fully cover. The mesh
// is kept with whatever triangles were produced.
func checkOutline(log *zap.Logger, kind, name string, m *mesh.Mesh) {
	for _, loop := range m.Loops() {
		report := mesh.CheckOutline(loop)
		if !report.Degenerate() {
			continue
		}
		log.Warn("degenerate outline",
			zap.String("kind", kind),
			zap.String("name", name),
			zap.Int("points", report.Points),
			zap.Bool("simple", report.Simple),
			zap.Float64("area", report.Area),
			zap.Int("triangles", len(m.Indices)/3),
		)
	}
}

type decoded[T any] struct {
	value T
	err   error
}

// decodeAll runs fn over items on a bounded pool. Per-item errors are
// returned in the result slice; only cancellation fails the whole call.
func decodeAll[S any, T any](ctx context.Context, items []S, fn func(*S) (T, error)) ([]decoded[T], error) {
	out := make([]decoded[T], len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := fn(&items[i])
			out[i] = decoded[T]{value: v, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TableID derives the rules identifier of a table file: its base name
// without extension, lower-cased.
func TableID(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return strings.ToLower(base)
}
