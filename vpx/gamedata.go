package vpx

import (
	"encoding/binary"
	"fmt"
	"math"
)

// materialRecordSize is the size of one serialized material in MATE.
const materialRecordSize = 76

func parseGameData(stream string, data []byte, t *Table) error {
	r := newBiffReader(stream, data)
	gd := &t.GameData
	var materialCount int32 = -1
	for {
		ok, err := r.next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if handled, err := r.nested(nil); handled || err != nil {
			if err != nil {
				return err
			}
			continue
		}
		switch r.tag {
		case "LEFT":
			err = r.float(&t.Bounds.Left)
		case "TOPX":
			err = r.float(&t.Bounds.Top)
		case "RGHT":
			err = r.float(&t.Bounds.Right)
		case "BOTM":
			err = r.float(&t.Bounds.Bottom)
		case "IMAG":
			err = r.str(&gd.PlayfieldImage)
		case "BLIM":
			err = r.str(&gd.BallImage)
		case "GAVT":
			err = r.float(&gd.Gravity)
		case "SEDT":
			err = readCount(r, &gd.GameItemCount)
		case "SSND":
			err = readCount(r, &gd.SoundCount)
		case "SIMG":
			err = readCount(r, &gd.ImageCount)
		case "MASI":
			materialCount, err = r.readInt()
		case "MATE":
			t.Materials, err = parseMaterials(r, materialCount)
		case "CODE":
			gd.Script, err = decodeANSI(r.body)
		}
		if err != nil {
			return err
		}
	}
}

func readCount(r *biffReader, dst *int) error {
	v, err := r.readInt()
	if err != nil {
		return err
	}
	if v < 0 {
		return r.errorf(ErrBadRecord, "negative count %d in %q", v, r.tag)
	}
	*dst = int(v)
	return nil
}

// parseMaterials decodes the fixed-size material records. When MASI was
// not seen the count is derived from the record length.
func parseMaterials(r *biffReader, count int32) ([]Material, error) {
	if count < 0 {
		count = int32(len(r.body) / materialRecordSize)
	}
	if err := r.need(int(count) * materialRecordSize); err != nil {
		return nil, err
	}
	out := make([]Material, 0, count)
	for i := 0; i < int(count); i++ {
		rec := r.body[i*materialRecordSize : (i+1)*materialRecordSize]
		name, err := decodeANSI(cString(rec[:32]))
		if err != nil {
			return nil, err
		}
		u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(rec[off:]) }
		f32 := func(off int) float64 { return float64(math.Float32frombits(u32(off))) }
		out = append(out, Material{
			Name:          name,
			BaseColor:     colorFromRef(u32(32)),
			GlossyColor:   colorFromRef(u32(36)),
			Clearcoat:     colorFromRef(u32(40)),
			WrapLighting:  f32(44),
			Metal:         rec[48] != 0,
			Roughness:     f32(52),
			Edge:          f32(60),
			Opacity:       f32(64),
			OpacityActive: rec[68]&1 != 0,
		})
	}
	return out, nil
}

func cString(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

func parseTableInfo(streams map[string][]byte, t *Table) error {
	fields := []struct {
		key string
		dst *string
	}{
		{"TableInfo/TableName", &t.Info.Name},
		{"TableInfo/AuthorName", &t.Info.Author},
		{"TableInfo/TableVersion", &t.Info.Version},
		{"TableInfo/TableDescription", &t.Info.Description},
		{"TableInfo/ReleaseDate", &t.Info.ReleaseDate},
	}
	for _, f := range fields {
		raw, ok := streams[f.key]
		if !ok {
			continue
		}
		s, err := decodeWide(raw)
		if err != nil {
			return &ParseError{Stream: f.key, Err: fmt.Errorf("%w: %v", ErrBadRecord, err)}
		}
		*f.dst = s
	}
	return nil
}
