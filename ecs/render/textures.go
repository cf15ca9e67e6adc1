// Package render draws the world's visuals and debug overlays onto ebiten
// images.
package render

import (
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/pinball/logger"
)

// ImageSource looks decoded table images up by name.
type ImageSource interface {
	Image(name string) (image.Image, error)
}

// Textures uploads table images on first use and caches them by name.
type Textures struct {
	src     ImageSource
	images  map[string]*ebiten.Image
	missing map[string]bool
	white   *ebiten.Image
	log     *zap.Logger
}

func NewTextures(src ImageSource) *Textures {
	return &Textures{
		src:     src,
		images:  make(map[string]*ebiten.Image),
		missing: make(map[string]bool),
		log:     logger.Named("textures"),
	}
}

// Get returns the texture for a table image, or nil when it cannot be
// loaded. Failures are logged once per name.
func (t *Textures) Get(name string) *ebiten.Image {
	if t == nil || name == "" {
		return nil
	}
	key := strings.ToLower(name)
	if img, ok := t.images[key]; ok {
		return img
	}
	if t.missing[key] || t.src == nil {
		return nil
	}

	decoded, err := t.src.Image(name)
	if err != nil {
		t.missing[key] = true
		t.log.Warn("texture unavailable", zap.String("image", name), zap.Error(err))
		return nil
	}
	img := ebiten.NewImageFromImage(decoded)
	t.images[key] = img
	return img
}

// White is a 1x1 opaque white texture for flat-colored triangles.
func (t *Textures) White() *ebiten.Image {
	if t.white == nil {
		// Sample the inner pixel so filtering never reaches the border.
		base := ebiten.NewImage(3, 3)
		base.Fill(color.White)
		t.white = base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return t.white
}

// Dispose frees every uploaded texture.
func (t *Textures) Dispose() {
	for key, img := range t.images {
		img.Deallocate()
		delete(t.images, key)
	}
	t.missing = make(map[string]bool)
}
