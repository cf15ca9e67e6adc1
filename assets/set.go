// Package assets resolves the images, sounds and generated meshes of a parsed
// table into a read-only lookup table shared by spawners and systems.
package assets

import (
	"image"
	"strings"

	"github.com/milk9111/pinball/mesh"
	"github.com/milk9111/pinball/vpx"
)

const (
	imagePrefix = "images/"
	soundPrefix = "sounds/"
)

func ImageKey(name string) string { return imagePrefix + name }
func SoundKey(name string) string { return soundPrefix + name }

// Set holds every resolved asset of one table. It is never mutated after
// Build returns, so it may be read from any goroutine.
type Set struct {
	table  *vpx.Table
	opts   Options
	images map[string]image.Image
	sounds map[string]*Sound
	meshes map[string]*mesh.Mesh
}

// normalize strips an optional key prefix. Table names are case-insensitive.
func normalize(name, prefix string) string {
	name = strings.TrimPrefix(name, prefix)
	return strings.ToLower(name)
}

func (s *Set) Table() *vpx.Table {
	return s.table
}

// Image returns the decoded image by bare name or images/ key.
func (s *Set) Image(name string) (image.Image, error) {
	if img, ok := s.images[normalize(name, imagePrefix)]; ok {
		return img, nil
	}
	return nil, &LookupError{Kind: "image", Name: name}
}

// ImagesLoaded reports whether images were decoded at all. When false every
// image lookup misses and callers should draw flat colors instead.
func (s *Set) ImagesLoaded() bool {
	return s.opts.LoadImages
}

// SoundsLoaded reports whether sounds were decoded at all.
func (s *Set) SoundsLoaded() bool {
	return s.opts.LoadSounds
}

func (s *Set) HasImage(name string) bool {
	_, ok := s.images[normalize(name, imagePrefix)]
	return ok
}

// Sound returns the decoded sound by bare name or sounds/ key.
func (s *Set) Sound(name string) (*Sound, error) {
	if snd, ok := s.sounds[normalize(name, soundPrefix)]; ok {
		return snd, nil
	}
	return nil, &LookupError{Kind: "sound", Name: name}
}

// Mesh returns a generated mesh by its full key, see mesh.WallKey.
func (s *Set) Mesh(key string) (*mesh.Mesh, error) {
	if m, ok := s.meshes[key]; ok {
		return m, nil
	}
	return nil, &LookupError{Kind: "mesh", Name: key}
}

func (s *Set) Material(name string) (vpx.Material, bool) {
	if s.table == nil || name == "" {
		return vpx.Material{}, false
	}
	return s.table.Material(name)
}

// Counts returns the number of images, sounds and meshes in the set.
func (s *Set) Counts() (images, sounds, meshes int) {
	return len(s.images), len(s.sounds), len(s.meshes)
}
