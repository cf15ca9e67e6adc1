package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SoundSpec names a sound, or a printf pattern with a %d verb when Variants
// is positive. Variants are numbered from 1.
type SoundSpec struct {
	Name     string `yaml:"name"`
	Variants int    `yaml:"variants"`
}

// Pick returns the sound name for variant n, clamped to [1, Variants].
func (s SoundSpec) Pick(n int) string {
	if s.Variants <= 0 {
		return s.Name
	}
	if n < 1 {
		n = 1
	}
	if n > s.Variants {
		n = s.Variants
	}
	return fmt.Sprintf(s.Name, n)
}

// Names lists every sound name s can produce.
func (s SoundSpec) Names() []string {
	if s.Name == "" {
		return nil
	}
	if s.Variants <= 0 {
		return []string{s.Name}
	}
	out := make([]string, 0, s.Variants)
	for i := 1; i <= s.Variants; i++ {
		out = append(out, fmt.Sprintf(s.Name, i))
	}
	return out
}

type FlipperSpec struct {
	Thickness      float64    `yaml:"thickness"`
	Mass           float64    `yaml:"mass"`
	Elasticity     float64    `yaml:"elasticity"`
	Friction       float64    `yaml:"friction"`
	EnabledTorque  float64    `yaml:"enabled_torque"`
	DisabledTorque float64    `yaml:"disabled_torque"`
	AnchorRadius   float64    `yaml:"anchor_radius"`
	Color          *YAMLColor `yaml:"color"`
	AnchorColor    *YAMLColor `yaml:"anchor_color"`
}

func LoadFlipperSpec() (*FlipperSpec, error) {
	spec, err := LoadSpec[FlipperSpec]("flipper.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PlungerSpec struct {
	Mass         float64    `yaml:"mass"`
	Elasticity   float64    `yaml:"elasticity"`
	Compliance   float64    `yaml:"compliance"`
	Damping      float64    `yaml:"damping"`
	PullRate     float64    `yaml:"pull_rate"`
	MaxForce     float64    `yaml:"max_force"`
	GuideWidth   float64    `yaml:"guide_width"`
	GuideHeight  float64    `yaml:"guide_height"`
	GuideMargin  float64    `yaml:"guide_margin"`
	GuideOffset  float64    `yaml:"guide_offset"`
	StopHeight   float64    `yaml:"stop_height"`
	StopOffset   float64    `yaml:"stop_offset"`
	PullSound    string     `yaml:"pull_sound"`
	ReleaseSound string     `yaml:"release_sound"`
	Color        *YAMLColor `yaml:"color"`
	GuideColor   *YAMLColor `yaml:"guide_color"`
}

func LoadPlungerSpec() (*PlungerSpec, error) {
	spec, err := LoadSpec[PlungerSpec]("plunger.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type BumperSpec struct {
	ForceScale float64   `yaml:"force_scale"`
	CapMargin  float64   `yaml:"cap_margin"`
	CapAlpha   uint8     `yaml:"cap_alpha"`
	Sound      SoundSpec `yaml:"sound"`
}

func LoadBumperSpec() (*BumperSpec, error) {
	spec, err := LoadSpec[BumperSpec]("bumper.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type TableSpec struct {
	WallThickness   float64    `yaml:"wall_thickness"`
	Gravity         float64    `yaml:"gravity"`
	BallHitSound    string     `yaml:"ball_hit_sound"`
	BallHitVolume   float64    `yaml:"ball_hit_volume"`
	WallColor       *YAMLColor `yaml:"wall_color"`
	FloorColor      *YAMLColor `yaml:"floor_color"`
	MissingMaterial *YAMLColor `yaml:"missing_material"`
	RubberColor     *YAMLColor `yaml:"rubber_color"`
	KickerColor     *YAMLColor `yaml:"kicker_color"`
	TriggerColor    *YAMLColor `yaml:"trigger_color"`
	LightColor      *YAMLColor `yaml:"light_color"`
}

func LoadTableSpec() (*TableSpec, error) {
	spec, err := LoadSpec[TableSpec]("table.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// RulesSpec parameterizes the drain and release cycle of one table.
type RulesSpec struct {
	Table         string    `yaml:"table"`
	DrainKicker   string    `yaml:"drain_kicker"`
	ReleaseKicker string    `yaml:"release_kicker"`
	DrainSound    SoundSpec `yaml:"drain_sound"`
	ReleaseSound  SoundSpec `yaml:"release_sound"`
	RemoveWalls   []string  `yaml:"remove_walls"`
}

func LoadRulesSpec(id string) (*RulesSpec, error) {
	spec, err := LoadSpec[RulesSpec](TableRulesFile(id))
	if err != nil {
		return nil, err
	}
	if spec.DrainKicker == "" {
		spec.DrainKicker = "Drain"
	}
	if spec.ReleaseKicker == "" {
		spec.ReleaseKicker = "BallRelease"
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

// NRGBA returns the color, or fallback when c is nil or unset.
func (c *YAMLColor) NRGBA(fallback color.NRGBA) color.NRGBA {
	if c == nil || c.Color == nil {
		return fallback
	}
	return color.NRGBAModel.Convert(c.Color).(color.NRGBA)
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
