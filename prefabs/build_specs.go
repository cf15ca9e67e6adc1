package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	Rotation float64 `yaml:"rotation"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type PhysicsBodyComponentSpec struct {
	Radius          float64 `yaml:"radius"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	Mass            float64 `yaml:"mass"`
	Elasticity      float64 `yaml:"elasticity"`
	Friction        float64 `yaml:"friction"`
	Static          bool    `yaml:"static"`
	Sensor          bool    `yaml:"sensor"`
	CollisionEvents bool    `yaml:"collision_events"`
	Continuous      bool    `yaml:"continuous"`
	NoSleep         bool    `yaml:"no_sleep"`
}

type VisualComponentSpec struct {
	Color    *YAMLColor `yaml:"color"`
	Segments int        `yaml:"segments"`
}

type RollingSoundComponentSpec struct {
	Sound    string  `yaml:"sound"`
	Volume   float64 `yaml:"volume"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
}
