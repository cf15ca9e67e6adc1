package vpx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"unicode/utf16"
)

var le = binary.LittleEndian

// biffWriter builds tagged record streams for tests.
type biffWriter struct {
	bytes.Buffer
}

func (w *biffWriter) record(tag string, payload []byte) {
	binary.Write(&w.Buffer, le, int32(len(payload)+4))
	w.WriteString(tag)
	w.Write(payload)
}

func (w *biffWriter) tag(tag string) { w.record(tag, nil) }

func (w *biffWriter) end() { w.tag("ENDB") }

func (w *biffWriter) float(tag string, v float64) {
	b := make([]byte, 4)
	le.PutUint32(b, math.Float32bits(float32(v)))
	w.record(tag, b)
}

func (w *biffWriter) int(tag string, v int32) {
	b := make([]byte, 4)
	le.PutUint32(b, uint32(v))
	w.record(tag, b)
}

func (w *biffWriter) boolean(tag string, v bool) {
	if v {
		w.int(tag, 1)
		return
	}
	w.int(tag, 0)
}

func (w *biffWriter) str(tag, s string) {
	b := make([]byte, 4, 4+len(s))
	le.PutUint32(b, uint32(len(s)))
	w.record(tag, append(b, s...))
}

func (w *biffWriter) wide(tag, s string) {
	units := utf16.Encode([]rune(s))
	b := make([]byte, 4+2*len(units))
	le.PutUint32(b, uint32(2*len(units)))
	for i, u := range units {
		le.PutUint16(b[4+2*i:], u)
	}
	w.record(tag, b)
}

func (w *biffWriter) vertex(tag string, x, y float64) {
	b := make([]byte, 8)
	le.PutUint32(b, math.Float32bits(float32(x)))
	le.PutUint32(b[4:], math.Float32bits(float32(y)))
	w.record(tag, b)
}

func (w *biffWriter) dragPoint(x, y float64, auto bool) {
	w.tag("DPNT")
	w.vertex("VCEN", x, y)
	w.boolean("ATEX", auto)
	w.end()
}

func itemStream(kind ItemKind, build func(w *biffWriter)) []byte {
	var w biffWriter
	binary.Write(&w.Buffer, le, uint32(kind))
	build(&w)
	w.end()
	return w.Bytes()
}

func materialRecord(name string, base uint32) []byte {
	rec := make([]byte, materialRecordSize)
	copy(rec, name)
	le.PutUint32(rec[32:], base)
	le.PutUint32(rec[64:], math.Float32bits(1))
	return rec
}

func wideBytes(s string) []byte {
	units := utf16.Encode([]rune(s))
	b := make([]byte, 2*len(units))
	for i, u := range units {
		le.PutUint16(b[2*i:], u)
	}
	return b
}

func soundStream(name, path string, data []byte, wav bool) []byte {
	var buf bytes.Buffer
	str := func(s string) {
		binary.Write(&buf, le, int32(len(s)))
		buf.WriteString(s)
	}
	str(name)
	str(path)
	str(name)
	if wav {
		binary.Write(&buf, le, WaveFormat{FormatTag: 1, Channels: 1, SamplesPerSec: 22050, AvgBytesPerSec: 44100, BlockAlign: 2, BitsPerSample: 16})
	}
	binary.Write(&buf, le, int32(len(data)))
	buf.Write(data)
	buf.WriteByte(0)
	binary.Write(&buf, le, int32(-100))
	binary.Write(&buf, le, int32(0))
	binary.Write(&buf, le, int32(0))
	return buf.Bytes()
}

func gameDataStream(items, sounds, images int32) []byte {
	var w biffWriter
	w.float("LEFT", 0)
	w.float("TOPX", 0)
	w.float("RGHT", 952)
	w.float("BOTM", 2162)
	w.str("IMAG", "playfield")
	w.str("BLIM", "")
	w.float("GAVT", 1.762)
	w.int("SEDT", items)
	w.int("SSND", sounds)
	w.int("SIMG", images)
	w.int("MASI", 2)
	w.record("MATE", append(materialRecord("Red", 0x000000FF), materialRecord("Blue", 0x00FF0000)...))
	w.tag("CODE")
	binary.Write(&w.Buffer, le, int32(len("Option Explicit")))
	w.WriteString("Option Explicit")
	w.end()
	return w.Bytes()
}

func testStreams() map[string][]byte {
	streams := map[string][]byte{
		"GameStg/Version": {0x58, 0x02, 0, 0},
	}
	items := [][]byte{
		itemStream(KindWall, func(w *biffWriter) {
			w.float("HTBT", 0)
			w.float("HTTP", 50)
			w.boolean("CLDW", true)
			w.str("TOMA", "Red")
			w.str("IMAG", "")
			w.float("ELAS", 0.6)
			w.float("WFCT", 0.2)
			w.boolean("VSBL", true)
			w.boolean("SIDV", false)
			w.wide("NAME", "Wall1")
			w.dragPoint(100, 100, true)
			w.dragPoint(200, 100, true)
			w.dragPoint(150, 200, false)
		}),
		itemStream(KindBumper, func(w *biffWriter) {
			w.vertex("VCEN", 300, 400)
			w.float("RADI", 45)
			w.float("FORC", 12)
			w.str("MATR", "Red")
			w.str("BAMA", "Blue")
			w.wide("NAME", "Bumper1")
		}),
		itemStream(KindKicker, func(w *biffWriter) {
			w.vertex("VCEN", 476, 2100)
			w.float("RADI", 25)
			w.wide("NAME", "Drain")
		}),
		itemStream(KindLight, func(w *biffWriter) {
			w.vertex("VCEN", 10, 20)
			w.float("RADI", 50)
			w.int("COLR", 0x0000FFFF)
			w.dragPoint(0, 0, true)
			w.wide("NAME", "L1")
		}),
		itemStream(KindFlipper, func(w *biffWriter) {
			w.vertex("VCEN", 280, 1900)
			w.float("BASR", 21.5)
			w.float("ENDR", 13)
			w.float("FLPR", 130)
			w.float("ANGS", 121)
			w.float("ANGE", 70)
			w.wide("NAME", "LeftFlipper")
		}),
		itemStream(KindPlunger, func(w *biffWriter) {
			w.vertex("VCEN", 900, 2000)
			w.float("WDTH", 25)
			w.float("HIGH", 20)
			w.float("HPSL", 80)
			w.wide("NAME", "Plunger")
		}),
		itemStream(KindRubber, func(w *biffWriter) {
			w.float("HTTP", 25)
			w.int("WDTH", 8)
			w.boolean("CLDR", true)
			w.float("ELAS", 0.8)
			w.float("RFCT", 0.6)
			w.wide("NAME", "Rubber1")
			w.dragPoint(0, 0, true)
			w.dragPoint(10, 0, true)
			w.dragPoint(10, 10, true)
		}),
		itemStream(KindTextbox, func(w *biffWriter) {
			w.tag("FONT")
			w.Write([]byte{1, 0, 0, 0, 0x90, 0x01, 0, 0, 0, 0, 5})
			w.WriteString("Arial")
			w.wide("NAME", "Score")
		}),
	}
	for i, data := range items {
		streams["GameStg/GameItem"+itoa(i)] = data
	}

	streams["GameStg/Sound0"] = soundStream("drain", `C:\sounds\drain.wav`, []byte{1, 2, 3, 4}, true)
	streams["GameStg/Sound1"] = soundStream("music", "music.ogg", []byte("OggS"), false)

	var img biffWriter
	img.str("NAME", "playfield")
	img.str("PATH", "playfield.jpg")
	img.int("WDTH", 4)
	img.int("HGHT", 8)
	img.tag("JPEG")
	img.int("SIZE", 4)
	img.record("DATA", []byte{0xFF, 0xD8, 0xFF, 0xE0})
	img.end()
	img.end()
	streams["GameStg/Image0"] = img.Bytes()

	var bits biffWriter
	bits.str("NAME", "raw")
	bits.int("WDTH", 2)
	bits.int("HGHT", 2)
	bits.tag("BITS")
	bits.Write([]byte{0xde, 0xad})
	streams["GameStg/Image1"] = bits.Bytes()

	streams["GameStg/GameData"] = gameDataStream(int32(len(items)), 2, 2)
	streams["TableInfo/TableName"] = wideBytes("Example Table")
	return streams
}

func itoa(i int) string {
	return string(rune('0' + i))
}

func TestParseStreams(t *testing.T) {
	table, err := ParseStreams(testStreams())
	if err != nil {
		t.Fatalf("ParseStreams failed: %v", err)
	}

	if table.Version != 600 {
		t.Errorf("expected version 600, got %d", table.Version)
	}
	if table.Bounds.Width() != 952 || table.Bounds.Depth() != 2162 {
		t.Errorf("unexpected bounds %+v", table.Bounds)
	}
	if table.GameData.PlayfieldImage != "playfield" {
		t.Errorf("expected playfield image, got %q", table.GameData.PlayfieldImage)
	}
	if table.GameData.Script != "Option Explicit" {
		t.Errorf("expected script, got %q", table.GameData.Script)
	}
	if table.Info.Name != "Example Table" {
		t.Errorf("expected table name, got %q", table.Info.Name)
	}
	if len(table.Materials) != 2 || table.Materials[0].BaseColor != (Color{R: 255}) || table.Materials[1].BaseColor != (Color{B: 255}) {
		t.Errorf("unexpected materials %+v", table.Materials)
	}
	if len(table.GameItems) != 8 {
		t.Fatalf("expected 8 game items, got %d", len(table.GameItems))
	}

	wall, ok := table.GameItems[0].(*Wall)
	if !ok {
		t.Fatalf("expected *Wall, got %T", table.GameItems[0])
	}
	if wall.Name != "Wall1" || wall.TopMaterial != "Red" || wall.SideVisible || !wall.Collidable {
		t.Errorf("unexpected wall %+v", wall)
	}
	if len(wall.DragPoints) != 3 || wall.DragPoints[1].X != 200 || wall.DragPoints[2].AutoTexture {
		t.Errorf("unexpected drag points %+v", wall.DragPoints)
	}

	bumper := table.GameItems[1].(*Bumper)
	if bumper.Center != (Vertex2D{300, 400}) || bumper.Force != 12 || bumper.BaseMaterial != "Blue" {
		t.Errorf("unexpected bumper %+v", bumper)
	}
	light := table.GameItems[3].(*Light)
	if light.Name != "L1" || light.Color != (Color{R: 255, G: 255}) {
		t.Errorf("light after nested drag point: %+v", light)
	}
	flipper := table.GameItems[4].(*Flipper)
	if flipper.StartAngle != 121 || flipper.EndAngle != 70 || flipper.RadiusMax != 130 {
		t.Errorf("unexpected flipper %+v", flipper)
	}
	rubber := table.GameItems[6].(*Rubber)
	if rubber.Thickness != 8 || len(rubber.DragPoints) != 3 {
		t.Errorf("unexpected rubber %+v", rubber)
	}
	opaque := table.GameItems[7]
	if opaque.Kind() != KindTextbox || opaque.ItemName() != "Score" {
		t.Errorf("expected textbox Score after font, got %v %q", opaque.Kind(), opaque.ItemName())
	}

	if len(table.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(table.Images))
	}
	if table.Images[0].Format != "jpeg" || len(table.Images[0].Data) != 4 {
		t.Errorf("unexpected jpeg image %+v", table.Images[0])
	}
	if table.Images[1].Name != "raw" || table.Images[1].Data != nil {
		t.Errorf("raw bitmap should have no encoded data: %+v", table.Images[1])
	}

	if len(table.Sounds) != 2 {
		t.Fatalf("expected 2 sounds, got %d", len(table.Sounds))
	}
	drain := table.Sounds[0]
	if !drain.IsWAV() || drain.Wave == nil || drain.Wave.SamplesPerSec != 22050 || drain.Volume != -100 {
		t.Errorf("unexpected wav sound %+v", drain)
	}
	if table.Sounds[1].Wave != nil || string(table.Sounds[1].Data) != "OggS" {
		t.Errorf("unexpected ogg sound %+v", table.Sounds[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		streams func() map[string][]byte
		want    error
		stream  string
	}{
		{
			name: "missing_game_data",
			streams: func() map[string][]byte {
				s := testStreams()
				delete(s, "GameStg/GameData")
				return s
			},
			want:   ErrMissingStream,
			stream: "GameStg/GameData",
		},
		{
			name: "missing_item_stream",
			streams: func() map[string][]byte {
				s := testStreams()
				delete(s, "GameStg/GameItem3")
				return s
			},
			want:   ErrMissingStream,
			stream: "GameStg/GameItem3",
		},
		{
			name: "duplicate_name",
			streams: func() map[string][]byte {
				s := testStreams()
				s["GameStg/GameItem2"] = itemStream(KindKicker, func(w *biffWriter) { w.wide("NAME", "Wall1") })
				return s
			},
			want:   ErrDuplicateName,
			stream: "GameStg/GameItem2",
		},
		{
			name: "truncated_item",
			streams: func() map[string][]byte {
				s := testStreams()
				data := s["GameStg/GameItem1"]
				s["GameStg/GameItem1"] = data[:len(data)-10]
				return s
			},
			want:   ErrTruncated,
			stream: "GameStg/GameItem1",
		},
		{
			name: "short_float",
			streams: func() map[string][]byte {
				s := testStreams()
				s["GameStg/GameItem2"] = itemStream(KindKicker, func(w *biffWriter) { w.record("RADI", []byte{1}) })
				return s
			},
			want:   ErrTruncated,
			stream: "GameStg/GameItem2",
		},
		{
			name: "truncated_sound",
			streams: func() map[string][]byte {
				s := testStreams()
				s["GameStg/Sound1"] = s["GameStg/Sound1"][:6]
				return s
			},
			want:   ErrTruncated,
			stream: "GameStg/Sound1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table, err := ParseStreams(tc.streams())
			if table != nil {
				t.Fatalf("expected nil table on error")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Stream != tc.stream {
				t.Fatalf("expected stream %q, got %q", tc.stream, perr.Stream)
			}
		})
	}
}

func TestParseMalformedBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"short", []byte{0xD0, 0xCF, 0x11, 0xE0}, ErrTruncated},
		{"not_a_compound_file", bytes.Repeat([]byte{0x42}, 1024), ErrBadContainer},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table, err := Parse(tc.data)
			if table != nil {
				t.Fatalf("expected nil table")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCheckReferences(t *testing.T) {
	table := &Table{
		Materials: []Material{{Name: "Red"}},
		Images:    []Image{{Name: "ball"}},
		GameData:  GameData{BallImage: "ball", PlayfieldImage: "missing_pf"},
		GameItems: []GameItem{
			&Wall{Name: "W1", TopMaterial: "Red", SideMaterial: "Green"},
			&Bumper{Name: "B1", CapMaterial: "", BaseMaterial: "Red"},
			&Rubber{Name: "R1", Image: "nope"},
		},
	}
	errs := table.CheckReferences()
	if len(errs) != 3 {
		t.Fatalf("expected 3 unresolved references, got %v", errs)
	}
	var ref *ReferenceError
	if !errors.As(errs[1], &ref) || ref.Item != "W1" || ref.Name != "Green" {
		t.Fatalf("unexpected reference error %v", errs[1])
	}
}

func TestSoundEncoded(t *testing.T) {
	s := Sound{
		Path: "hit.WAV",
		Wave: &WaveFormat{FormatTag: 1, Channels: 2, SamplesPerSec: 44100, AvgBytesPerSec: 176400, BlockAlign: 4, BitsPerSample: 16},
		Data: make([]byte, 16),
	}
	out := s.Encoded()
	if len(out) != 44+16 {
		t.Fatalf("expected 60 bytes, got %d", len(out))
	}
	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" || string(out[36:40]) != "data" {
		t.Fatalf("bad RIFF layout %q", out[:40])
	}
	if le.Uint32(out[4:]) != uint32(len(out)-8) {
		t.Fatalf("RIFF size %d, want %d", le.Uint32(out[4:]), len(out)-8)
	}

	ogg := Sound{Path: "music.ogg", Data: []byte("OggS")}
	if string(ogg.Encoded()) != "OggS" {
		t.Fatalf("non-wav sounds should pass through")
	}
}

func TestItemKindString(t *testing.T) {
	if KindRubber.String() != "Rubber" {
		t.Fatalf("unexpected %q", KindRubber.String())
	}
	if ItemKind(99).String() != "Unknown(99)" {
		t.Fatalf("unexpected %q", ItemKind(99).String())
	}
}
