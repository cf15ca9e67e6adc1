package entity

import (
	"context"
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/units"
	"github.com/milk9111/pinball/vpx"
)

func square(x, y, size float64) []vpx.DragPoint {
	return []vpx.DragPoint{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

func createTestTable() *vpx.Table {
	return &vpx.Table{
		Bounds: units.Bounds{Left: 0, Top: 0, Right: 1000, Bottom: 2000},
		Info:   vpx.TableInfo{Name: "Test Table"},
		Materials: []vpx.Material{
			{Name: "Red", BaseColor: vpx.Color{R: 255}},
			{Name: "Blue", BaseColor: vpx.Color{B: 255}},
		},
		GameItems: []vpx.GameItem{
			&vpx.Wall{Name: "Apron", DragPoints: square(100, 100, 200), HeightTop: 50, Collidable: true, TopBottomVisible: true, TopMaterial: "Red", Elasticity: 0.3, Friction: 0.1},
			&vpx.Wall{Name: "Raised", DragPoints: square(400, 100, 100), HeightBottom: 200, HeightTop: 250, Collidable: true, TopBottomVisible: true, TopMaterial: "Blue"},
			&vpx.Wall{Name: "Ghost", DragPoints: square(600, 100, 100), HeightTop: 50, Collidable: true, TopMaterial: "Nope"},
			&vpx.Rubber{Name: "Ring", DragPoints: square(400, 400, 100), Height: 25, Thickness: 8, Collidable: true, Elasticity: 0.8},
			&vpx.Bumper{Name: "B1", Center: vpx.Vertex2D{X: 500, Y: 600}, Radius: 45, Force: 15, CapMaterial: "Red", BaseMaterial: "Blue"},
			&vpx.Kicker{Name: "Drain", Center: vpx.Vertex2D{X: 500, Y: 1950}, Radius: 25},
			&vpx.Kicker{Name: "BallRelease", Center: vpx.Vertex2D{X: 900, Y: 1800}, Radius: 25},
			&vpx.Trigger{Name: "T1", Center: vpx.Vertex2D{X: 300, Y: 900}, Radius: 20},
			&vpx.Light{Name: "L1", Center: vpx.Vertex2D{X: 300, Y: 1000}, MeshRadius: 20, FalloffRadius: 50},
			&vpx.Flipper{Name: "LeftFlipper", Center: vpx.Vertex2D{X: 350, Y: 1700}, BaseRadius: 21, EndRadius: 10, RadiusMax: 130, StartAngle: 121, EndAngle: 70},
			&vpx.Flipper{Name: "RightFlipper", Center: vpx.Vertex2D{X: 650, Y: 1700}, BaseRadius: 21, EndRadius: 10, RadiusMax: 130, StartAngle: -121, EndAngle: -70},
			&vpx.Plunger{Name: "Plunger", Center: vpx.Vertex2D{X: 950, Y: 1900}, Width: 25, Height: 20, Stroke: 80},
			&vpx.Opaque{Name: "Gate1", Type: vpx.KindGate},
		},
	}
}

func buildSet(t *testing.T, table *vpx.Table) *assets.Set {
	t.Helper()
	set, err := assets.Build(context.Background(), table, assets.Options{}, nil)
	if err != nil {
		t.Fatalf("build assets: %v", err)
	}
	return set
}

func findByName(w *ecs.World, name string) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		if n.Value == name {
			found, ok = e, true
		}
	})
	return found, ok
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSpawnLevel(t *testing.T) {
	w := ecs.NewWorld()
	table := createTestTable()
	set := buildSet(t, table)

	if err := SpawnLevel(w, set, Level{ID: "exampletable", BallStart: "BallRelease"}); err != nil {
		t.Fatalf("spawn level: %v", err)
	}

	names := []string{
		"Table Floor",
		"Table Wall Left",
		"Wall Apron",
		"Rubber Ring",
		"Bumper B1",
		"Bumper Cap B1",
		"Kicker Drain",
		"Kicker BallRelease",
		"Trigger T1",
		"Light L1",
		"Light Halo L1",
		"Flipper LeftFlipper",
		"Flipper LeftFlipper Anchor",
		"Flipper RightFlipper",
		"Plunger Plunger",
		"Plunger Plunger Stop",
		"Ball 0",
	}
	for _, name := range names {
		if _, ok := findByName(w, name); !ok {
			t.Fatalf("missing entity %q", name)
		}
	}

	ball, _ := findByName(w, "Ball 0")
	tr, ok := ecs.Get(w, ball, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("ball has no transform")
	}
	want := units.NewTransform(table.Bounds).Point(900, 1800)
	if !near(tr.X, want.X) || !near(tr.Y, want.Y) {
		t.Fatalf("ball at (%v, %v), want release kicker (%v, %v)", tr.X, tr.Y, want.X, want.Y)
	}

	floor, _ := findByName(w, "Table Floor")
	if !ecs.Has(w, floor, component.LevelLoadedComponent.Kind()) {
		t.Fatalf("table must be marked loaded")
	}
	tc, _ := ecs.Get(w, floor, component.TableComponent.Kind())
	if tc.Name != "Test Table" || tc.ID != "exampletable" || !near(tc.Width, units.VPUToM(1000)) {
		t.Fatalf("unexpected table component %+v", tc)
	}
}

func TestSpawnLevelBallStart(t *testing.T) {
	tf := units.NewTransform(createTestTable().Bounds)
	tests := []struct {
		name      string
		ballStart string
		want      units.Vec2
	}{
		{"exact", "BallRelease", tf.Point(900, 1800)},
		{"lower case", "ballrelease", tf.Point(900, 1800)},
		{"upper case", "DRAIN", tf.Point(500, 1950)},
		{"unknown kicker", "Saucer", units.Vec2{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			set := buildSet(t, createTestTable())
			if err := SpawnLevel(w, set, Level{ID: "exampletable", BallStart: tc.ballStart}); err != nil {
				t.Fatalf("spawn level: %v", err)
			}
			ball, ok := findByName(w, "Ball 0")
			if !ok {
				t.Fatalf("no ball spawned")
			}
			tr, _ := ecs.Get(w, ball, component.TransformComponent.Kind())
			if !near(tr.X, tc.want.X) || !near(tr.Y, tc.want.Y) {
				t.Fatalf("ball at (%v, %v), want (%v, %v)", tr.X, tr.Y, tc.want.X, tc.want.Y)
			}
		})
	}
}

func TestWallColliders(t *testing.T) {
	w := ecs.NewWorld()
	table := createTestTable()
	set := buildSet(t, table)
	tf := units.NewTransform(table.Bounds)

	tests := []struct {
		name     string
		wall     *vpx.Wall
		collider bool
		color    color.NRGBA
	}{
		{name: "floor level", wall: table.GameItems[0].(*vpx.Wall), collider: true, color: color.NRGBA{R: 255, A: 255}},
		{name: "raised above the ball", wall: table.GameItems[1].(*vpx.Wall), collider: false, color: color.NRGBA{B: 255, A: 255}},
		{name: "invisible with missing material", wall: table.GameItems[2].(*vpx.Wall), collider: true, color: color.NRGBA{R: 255, B: 255, A: 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewWall(w, tt.wall, set, tf)
			if err != nil {
				t.Fatalf("spawn: %v", err)
			}
			v, ok := ecs.Get(w, e, component.VisualComponent.Kind())
			if !ok || v.Mesh.VertexCount() != 4 {
				t.Fatalf("wall must keep its mesh")
			}
			if v.Color != tt.color {
				t.Fatalf("color = %v, want %v", v.Color, tt.color)
			}
			body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
			if ok != tt.collider {
				t.Fatalf("collider present = %v, want %v", ok, tt.collider)
			}
			if ok {
				if !body.Static || body.Collider != component.ColliderPolyline {
					t.Fatalf("unexpected body %+v", body)
				}
				if len(body.Outlines) != 1 || len(body.Outlines[0]) != 5 {
					t.Fatalf("outline must be closed with N+1 points, got %v", body.Outlines)
				}
				if body.Elasticity != tt.wall.Elasticity || body.Friction != tt.wall.Friction {
					t.Fatalf("material properties not copied: %+v", body)
				}
			}
		})
	}
}

func TestSpawnLevelRollsBack(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := NewCamera(w); err != nil {
		t.Fatalf("camera: %v", err)
	}
	before := len(ecs.Entities(w))

	table := createTestTable()
	set := buildSet(t, table)
	table.GameItems = append(table.GameItems, &vpx.Wall{Name: "Late", DragPoints: square(0, 0, 10)})

	err := SpawnLevel(w, set, Level{ID: "exampletable"})
	if err == nil {
		t.Fatalf("expected lookup error")
	}
	if !errors.Is(err, assets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var lookup *assets.LookupError
	if !errors.As(err, &lookup) || lookup.Kind != "mesh" {
		t.Fatalf("expected mesh LookupError, got %v", err)
	}
	if got := len(ecs.Entities(w)); got != before {
		t.Fatalf("rollback left %d entities, want %d", got, before)
	}
}

func TestMissingBallImage(t *testing.T) {
	table := createTestTable()
	table.GameData.BallImage = "Chrome"
	// Defined but stored only as a raw bitmap, so it never decodes.
	table.Images = append(table.Images, vpx.Image{Name: "Chrome", Path: "chrome.bmp", Width: 2, Height: 2})
	set, err := assets.Build(context.Background(), table, assets.Options{LoadImages: true}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	w := ecs.NewWorld()
	_, err = NewBall(w, set, 0, 0, 0)
	if !errors.Is(err, assets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("failed spawn left %d entities", n)
	}
}

func TestNewBall(t *testing.T) {
	w := ecs.NewWorld()
	set := buildSet(t, createTestTable())

	e, err := NewBall(w, set, 3, 0.1, -0.2)
	if err != nil {
		t.Fatalf("ball: %v", err)
	}
	name, _ := ecs.Get(w, e, component.NameComponent.Kind())
	if name.Value != "Ball 3" {
		t.Fatalf("name = %q", name.Value)
	}
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		t.Fatalf("ball has no body")
	}
	if body.Collider != component.ColliderCircle || body.Radius != units.BallRadius || body.Mass != 0.08 {
		t.Fatalf("unexpected ball body %+v", body)
	}
	if !body.CollisionEvents || !body.NoSleep || body.Static {
		t.Fatalf("ball must be dynamic with collision events and no sleep: %+v", body)
	}
	if v, ok := ecs.Get(w, e, component.VisualComponent.Kind()); !ok || v.Image != "" {
		t.Fatalf("untextured ball expected, got %+v", v)
	}
	if rs, ok := ecs.Get(w, e, component.RollingSoundComponent.Kind()); !ok || rs.Sound != "fx_ballrolling0" {
		t.Fatalf("rolling sound missing: %+v", rs)
	}
	if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); !ok || layer.Index != component.LayerBall {
		t.Fatalf("ball render layer = %+v", layer)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.X != 0.1 || tr.Y != -0.2 {
		t.Fatalf("ball at (%v, %v)", tr.X, tr.Y)
	}
}

func TestFlipperGeometry(t *testing.T) {
	tf := units.NewTransform(units.Bounds{Right: 1000, Bottom: 2000})
	tests := []struct {
		name     string
		start    float64
		end      float64
		left     bool
		minAngle float64
		maxAngle float64
	}{
		{name: "left", start: 121, end: 70, left: true, minAngle: units.Deg2Rad(-31), maxAngle: units.Deg2Rad(20)},
		{name: "right", start: -121, end: -70, left: false, minAngle: units.Deg2Rad(160), maxAngle: units.Deg2Rad(211)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &vpx.Flipper{Name: tt.name, Center: vpx.Vertex2D{X: 500, Y: 1000}, RadiusMax: 130, EndRadius: 10, StartAngle: tt.start, EndAngle: tt.end}
			geo := NewFlipperGeometry(item, tf)
			if geo.Left != tt.left {
				t.Fatalf("left = %v", geo.Left)
			}
			if !near(geo.MinAngle, tt.minAngle) || !near(geo.MaxAngle, tt.maxAngle) {
				t.Fatalf("limits = [%v, %v], want [%v, %v]", geo.MinAngle, geo.MaxAngle, tt.minAngle, tt.maxAngle)
			}
			if !near(geo.RestAngle, units.FlipperAngle(tt.start)) {
				t.Fatalf("rest angle = %v", geo.RestAngle)
			}
			if !near(geo.Length, units.VPUToM(135)) {
				t.Fatalf("length = %v", geo.Length)
			}
			pivot := geo.Center(geo.RestAngle).Sub(geo.Anchor)
			if !near(pivot.Length(), geo.Length/2) {
				t.Fatalf("body center must sit half a length from the anchor, got %v", pivot.Length())
			}

			w := ecs.NewWorld()
			e, err := NewFlipper(w, item, nil, tf)
			if err != nil {
				t.Fatalf("spawn: %v", err)
			}
			f, _ := ecs.Get(w, e, component.FlipperComponent.Kind())
			if tt.left && (f.EnabledTorque != 1.5 || f.DisabledTorque != -0.5) {
				t.Fatalf("left torques = %v, %v", f.EnabledTorque, f.DisabledTorque)
			}
			if !tt.left && (f.EnabledTorque != -1.5 || f.DisabledTorque != 0.5) {
				t.Fatalf("right torques = %v, %v", f.EnabledTorque, f.DisabledTorque)
			}
			if _, ok := findByName(w, "Flipper "+tt.name+" Anchor"); !ok {
				t.Fatalf("anchor not spawned")
			}
		})
	}
}

func TestPlungerPlacement(t *testing.T) {
	w := ecs.NewWorld()
	tf := units.NewTransform(units.Bounds{Right: 1000, Bottom: 2000})
	item := &vpx.Plunger{Name: "P", Center: vpx.Vertex2D{X: 950, Y: 1900}, Width: 25, Height: 20, Stroke: 80}

	e, err := NewPlunger(w, item, nil, tf)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	p, _ := ecs.Get(w, e, component.PlungerComponent.Kind())
	anchor := tf.Point(950, 1900)
	anchor.Y -= units.VPUToM(20)
	if !near(p.AnchorX, anchor.X) || !near(p.AnchorY, anchor.Y) {
		t.Fatalf("anchor = (%v, %v), want %v", p.AnchorX, p.AnchorY, anchor)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if !near(tr.Y, anchor.Y+units.VPUToM(80)) {
		t.Fatalf("body must rest one stroke above the anchor, y = %v", tr.Y)
	}
	if !near(p.Offset(tr.Y), 0) || !p.CanPull(tr.Y) {
		t.Fatalf("resting plunger must be pullable, offset %v", p.Offset(tr.Y))
	}
	if p.CanPull(tr.Y - units.VPUToM(80) - 0.001) {
		t.Fatalf("a fully pulled plunger must not pull further")
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !body.LockRotation || body.Mass != 0.2 {
		t.Fatalf("unexpected plunger body %+v", body)
	}
	if n := len(w.Query(component.GuideTagComponent.Kind())); n != 3 {
		t.Fatalf("expected two guides and a stop, got %d", n)
	}
}

func TestBumper(t *testing.T) {
	w := ecs.NewWorld()
	table := createTestTable()
	set := buildSet(t, table)
	tf := units.NewTransform(table.Bounds)

	e, err := NewBumper(w, table.GameItems[4].(*vpx.Bumper), set, tf)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	b, _ := ecs.Get(w, e, component.BumperComponent.Kind())
	if !near(b.Force, 15*0.008) {
		t.Fatalf("force = %v", b.Force)
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !near(body.Radius, units.VPUToM(45)) || !body.Static {
		t.Fatalf("unexpected bumper body %+v", body)
	}
	c, ok := findByName(w, "Bumper Cap B1")
	if !ok {
		t.Fatalf("cap not spawned")
	}
	if ecs.Has(w, c, component.PhysicsBodyComponent.Kind()) {
		t.Fatalf("cap must not collide")
	}
	v, _ := ecs.Get(w, c, component.VisualComponent.Kind())
	if v.Color != (color.NRGBA{R: 255, A: 210}) {
		t.Fatalf("cap color = %v", v.Color)
	}
}

func TestBuildEntityErrors(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := BuildEntity(nil, ballPrefab); err == nil {
		t.Fatalf("expected error for nil world")
	}
	if _, err := BuildEntity(w, "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing prefab")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("failed builds left %d entities", n)
	}
}
