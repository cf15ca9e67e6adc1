// Package vpx reads Visual Pinball X table files.
//
// A table is an OLE compound file. Game items, images and the table
// settings live in tagged record streams under GameStg; sounds use a
// fixed layout; table metadata lives under TableInfo as UTF-16 strings.
package vpx

import (
	"fmt"

	"github.com/milk9111/pinball/units"
)

// ItemKind is the numeric game item type stored at the start of every
// GameItem stream.
type ItemKind uint32

// Game item kinds.
const (
	KindWall        ItemKind = 0
	KindFlipper     ItemKind = 1
	KindTimer       ItemKind = 2
	KindPlunger     ItemKind = 3
	KindTextbox     ItemKind = 4
	KindBumper      ItemKind = 5
	KindTrigger     ItemKind = 6
	KindLight       ItemKind = 7
	KindKicker      ItemKind = 8
	KindDecal       ItemKind = 9
	KindGate        ItemKind = 10
	KindSpinner     ItemKind = 11
	KindRamp        ItemKind = 12
	KindLightCenter ItemKind = 14
	KindDragPoint   ItemKind = 15
	KindCollection  ItemKind = 16
	KindReel        ItemKind = 17
	KindLightSeq    ItemKind = 18
	KindPrimitive   ItemKind = 19
	KindFlasher     ItemKind = 20
	KindRubber      ItemKind = 21
	KindHitTarget   ItemKind = 22
	KindBall        ItemKind = 23
)

var kindNames = map[ItemKind]string{
	KindWall:        "Wall",
	KindFlipper:     "Flipper",
	KindTimer:       "Timer",
	KindPlunger:     "Plunger",
	KindTextbox:     "Textbox",
	KindBumper:      "Bumper",
	KindTrigger:     "Trigger",
	KindLight:       "Light",
	KindKicker:      "Kicker",
	KindDecal:       "Decal",
	KindGate:        "Gate",
	KindSpinner:     "Spinner",
	KindRamp:        "Ramp",
	KindLightCenter: "LightCenter",
	KindDragPoint:   "DragPoint",
	KindCollection:  "Collection",
	KindReel:        "Reel",
	KindLightSeq:    "LightSeq",
	KindPrimitive:   "Primitive",
	KindFlasher:     "Flasher",
	KindRubber:      "Rubber",
	KindHitTarget:   "HitTarget",
	KindBall:        "Ball",
}

// String returns a human-readable item kind.
func (k ItemKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint32(k))
}

// GameItem is one named element of a table.
type GameItem interface {
	ItemName() string
	Kind() ItemKind
}

// Vertex2D is a position in native table units.
type Vertex2D struct {
	X float64
	Y float64
}

// Color is an sRGB color. Files store it as 0x00BBGGRR.
type Color struct {
	R, G, B uint8
}

// IsZero reports whether the color is black, which tables use for "unset".
func (c Color) IsZero() bool {
	return c == Color{}
}

// DragPoint is one vertex of an item outline.
type DragPoint struct {
	X, Y, Z     float64
	Smooth      bool
	AutoTexture bool
	TexCoord    float64
}

// Wall is a surface: a raised polygon with a top face and sides.
type Wall struct {
	Name             string
	DragPoints       []DragPoint
	HeightBottom     float64
	HeightTop        float64
	Collidable       bool
	TopBottomVisible bool
	SideVisible      bool
	Image            string
	SideImage        string
	TopMaterial      string
	SideMaterial     string
	Elasticity       float64
	Friction         float64
}

func (w *Wall) ItemName() string { return w.Name }
func (w *Wall) Kind() ItemKind   { return KindWall }

// Rubber is a band stretched along a closed centerline.
type Rubber struct {
	Name       string
	DragPoints []DragPoint
	Height     float64
	Thickness  float64
	Collidable bool
	Visible    bool
	Material   string
	Image      string
	Elasticity float64
	Friction   float64
}

func (r *Rubber) ItemName() string { return r.Name }
func (r *Rubber) Kind() ItemKind   { return KindRubber }

// Bumper is a round pop bumper.
type Bumper struct {
	Name         string
	Center       Vertex2D
	Radius       float64
	Force        float64
	CapMaterial  string
	BaseMaterial string
}

func (b *Bumper) ItemName() string { return b.Name }
func (b *Bumper) Kind() ItemKind   { return KindBumper }

// Kicker is a hole that captures and ejects balls.
type Kicker struct {
	Name     string
	Center   Vertex2D
	Radius   float64
	Material string
}

func (k *Kicker) ItemName() string { return k.Name }
func (k *Kicker) Kind() ItemKind   { return KindKicker }

// Trigger is a switch area that reports balls rolling over it.
type Trigger struct {
	Name       string
	Center     Vertex2D
	Radius     float64
	DragPoints []DragPoint
}

func (t *Trigger) ItemName() string { return t.Name }
func (t *Trigger) Kind() ItemKind   { return KindTrigger }

// Light is an insert or bulb.
type Light struct {
	Name          string
	Center        Vertex2D
	FalloffRadius float64
	MeshRadius    float64
	Height        float64
	Color         Color
}

func (l *Light) ItemName() string { return l.Name }
func (l *Light) Kind() ItemKind   { return KindLight }

// Plunger is the ball launcher.
type Plunger struct {
	Name   string
	Center Vertex2D
	Width  float64
	Height float64
	Stroke float64
}

func (p *Plunger) ItemName() string { return p.Name }
func (p *Plunger) Kind() ItemKind   { return KindPlunger }

// Flipper is a player-controlled bat. Angles are in degrees clockwise from
// the table's up direction.
type Flipper struct {
	Name       string
	Center     Vertex2D
	BaseRadius float64
	EndRadius  float64
	RadiusMax  float64
	StartAngle float64
	EndAngle   float64
	Height     float64
	Material   string
	Elasticity float64
}

func (f *Flipper) ItemName() string { return f.Name }
func (f *Flipper) Kind() ItemKind   { return KindFlipper }

// Opaque is any item kind this package does not decode.
type Opaque struct {
	Name string
	Type ItemKind
}

func (o *Opaque) ItemName() string { return o.Name }
func (o *Opaque) Kind() ItemKind   { return o.Type }

// Material is a named surface material.
type Material struct {
	Name          string
	BaseColor     Color
	GlossyColor   Color
	Clearcoat     Color
	WrapLighting  float64
	Metal         bool
	Roughness     float64
	Edge          float64
	Opacity       float64
	OpacityActive bool
}

// Image is an embedded texture.
type Image struct {
	Name   string
	Path   string
	Width  int
	Height int
	// Data holds the encoded file bytes. It is empty when the image was
	// stored as a raw bitmap.
	Data   []byte
	Format string
}

// GameData holds the table-wide settings.
type GameData struct {
	PlayfieldImage string
	BallImage      string
	Gravity        float64
	GameItemCount  int
	SoundCount     int
	ImageCount     int
	Script         string
}

// TableInfo holds the author supplied metadata.
type TableInfo struct {
	Name        string
	Author      string
	Version     string
	Description string
	ReleaseDate string
}

// Table is a parsed table file.
type Table struct {
	Version   int32
	Bounds    units.Bounds
	GameData  GameData
	Info      TableInfo
	GameItems []GameItem
	Materials []Material
	Images    []Image
	Sounds    []Sound
}

// Item returns the game item with the given name.
func (t *Table) Item(name string) (GameItem, bool) {
	for _, it := range t.GameItems {
		if it.ItemName() == name {
			return it, true
		}
	}
	return nil, false
}

// Material returns the material with the given name.
func (t *Table) Material(name string) (Material, bool) {
	for _, m := range t.Materials {
		if m.Name == name {
			return m, true
		}
	}
	return Material{}, false
}

// Image returns the image with the given name.
func (t *Table) Image(name string) (*Image, bool) {
	for i := range t.Images {
		if t.Images[i].Name == name {
			return &t.Images[i], true
		}
	}
	return nil, false
}

// Sound returns the sound with the given name.
func (t *Table) Sound(name string) (*Sound, bool) {
	for i := range t.Sounds {
		if t.Sounds[i].Name == name {
			return &t.Sounds[i], true
		}
	}
	return nil, false
}

// CheckReferences returns one ReferenceError per material or image name
// used by a game item or the table settings that the table does not define.
// Empty names mean "none".
func (t *Table) CheckReferences() []error {
	var errs []error
	material := func(item, name string) {
		if name == "" {
			return
		}
		if _, ok := t.Material(name); !ok {
			errs = append(errs, &ReferenceError{Item: item, Kind: "material", Name: name})
		}
	}
	image := func(item, name string) {
		if name == "" {
			return
		}
		if _, ok := t.Image(name); !ok {
			errs = append(errs, &ReferenceError{Item: item, Kind: "image", Name: name})
		}
	}

	image("table", t.GameData.PlayfieldImage)
	image("table", t.GameData.BallImage)
	for _, it := range t.GameItems {
		switch v := it.(type) {
		case *Wall:
			material(v.Name, v.TopMaterial)
			material(v.Name, v.SideMaterial)
			image(v.Name, v.Image)
			image(v.Name, v.SideImage)
		case *Rubber:
			material(v.Name, v.Material)
			image(v.Name, v.Image)
		case *Bumper:
			material(v.Name, v.CapMaterial)
			material(v.Name, v.BaseMaterial)
		case *Kicker:
			material(v.Name, v.Material)
		case *Flipper:
			material(v.Name, v.Material)
		}
	}
	return errs
}
