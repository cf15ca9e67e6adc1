package vpx

import (
	"encoding/binary"
)

func (r *biffReader) float(dst *float64) error {
	v, err := r.readFloat()
	if err == nil {
		*dst = v
	}
	return err
}

func (r *biffReader) intAsFloat(dst *float64) error {
	v, err := r.readInt()
	if err == nil {
		*dst = float64(v)
	}
	return err
}

func (r *biffReader) boolean(dst *bool) error {
	v, err := r.readBool()
	if err == nil {
		*dst = v
	}
	return err
}

func (r *biffReader) str(dst *string) error {
	v, err := r.readString()
	if err == nil {
		*dst = v
	}
	return err
}

func (r *biffReader) wide(dst *string) error {
	v, err := r.readWideString()
	if err == nil {
		*dst = v
	}
	return err
}

func (r *biffReader) vertex(dst *Vertex2D) error {
	v, err := r.readVertex()
	if err == nil {
		*dst = v
	}
	return err
}

func (r *biffReader) color(dst *Color) error {
	v, err := r.readColor()
	if err == nil {
		*dst = v
	}
	return err
}

// nested consumes records that embed their own ENDB-terminated block or an
// unframed structure, so the caller's record loop stays aligned. It reports
// whether the current tag was handled.
func (r *biffReader) nested(points *[]DragPoint) (bool, error) {
	switch r.tag {
	case "DPNT":
		p, err := readDragPoint(r)
		if err != nil {
			return true, err
		}
		if points != nil {
			*points = append(*points, p)
		}
		return true, nil
	case "FONT":
		return true, r.skipFont()
	}
	return false, nil
}

func readDragPoint(r *biffReader) (DragPoint, error) {
	p := DragPoint{AutoTexture: true}
	for {
		ok, err := r.next()
		if err != nil {
			return p, err
		}
		if !ok {
			return p, nil
		}
		switch r.tag {
		case "VCEN":
			var v Vertex2D
			err = r.vertex(&v)
			p.X, p.Y = v.X, v.Y
		case "POSZ":
			err = r.float(&p.Z)
		case "SMTH":
			err = r.boolean(&p.Smooth)
		case "ATEX":
			err = r.boolean(&p.AutoTexture)
		case "TEXC":
			err = r.float(&p.TexCoord)
		}
		if err != nil {
			return p, err
		}
	}
}

// skipFont steps over a serialized font: version, charset, style, weight,
// size and a length prefixed face name.
func (r *biffReader) skipFont() error {
	const fixed = 1 + 2 + 1 + 2 + 4
	rest := r.remaining()
	if len(rest) < fixed+1 {
		return r.truncated()
	}
	n := int(rest[fixed])
	if len(rest) < fixed+1+n {
		return r.truncated()
	}
	r.pos += fixed + 1 + n
	return nil
}

// parseGameItem decodes a GameItem stream: a uint32 item kind followed by
// the item's records.
func parseGameItem(stream string, data []byte) (GameItem, error) {
	if len(data) < 4 {
		return nil, &ParseError{Stream: stream, Err: ErrTruncated}
	}
	kind := ItemKind(binary.LittleEndian.Uint32(data))
	r := newBiffReader(stream, data[4:])

	var (
		item   GameItem
		decode func() error
		points *[]DragPoint
	)
	switch kind {
	case KindWall:
		w := &Wall{Collidable: true, TopBottomVisible: true, SideVisible: true, HeightTop: 50, Elasticity: 0.3, Friction: 0.3}
		item, points = w, &w.DragPoints
		decode = func() error { return decodeWall(r, w) }
	case KindRubber:
		rb := &Rubber{Collidable: true, Visible: true, Height: 25, Thickness: 8, Elasticity: 0.8, Friction: 0.6}
		item, points = rb, &rb.DragPoints
		decode = func() error { return decodeRubber(r, rb) }
	case KindBumper:
		b := &Bumper{Radius: 45, Force: 15}
		item = b
		decode = func() error { return decodeBumper(r, b) }
	case KindKicker:
		k := &Kicker{Radius: 25}
		item = k
		decode = func() error { return decodeKicker(r, k) }
	case KindTrigger:
		t := &Trigger{Radius: 25}
		item, points = t, &t.DragPoints
		decode = func() error { return decodeTrigger(r, t) }
	case KindLight:
		l := &Light{FalloffRadius: 50, MeshRadius: 20}
		item = l
		decode = func() error { return decodeLight(r, l) }
	case KindPlunger:
		p := &Plunger{Width: 25, Height: 20, Stroke: 80}
		item = p
		decode = func() error { return decodePlunger(r, p) }
	case KindFlipper:
		f := &Flipper{BaseRadius: 21.5, EndRadius: 13, RadiusMax: 130, StartAngle: 121, EndAngle: 70, Height: 50, Elasticity: 0.8}
		item = f
		decode = func() error { return decodeFlipper(r, f) }
	default:
		o := &Opaque{Type: kind}
		item = o
		decode = func() error {
			if r.tag == "NAME" {
				return r.wide(&o.Name)
			}
			return nil
		}
	}

	for {
		ok, err := r.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return item, nil
		}
		handled, err := r.nested(points)
		if err != nil {
			return nil, err
		}
		if handled {
			continue
		}
		if err := decode(); err != nil {
			return nil, err
		}
	}
}

func decodeWall(r *biffReader, w *Wall) error {
	switch r.tag {
	case "NAME":
		return r.wide(&w.Name)
	case "HTBT":
		return r.float(&w.HeightBottom)
	case "HTTP":
		return r.float(&w.HeightTop)
	case "CLDW":
		return r.boolean(&w.Collidable)
	case "VSBL":
		return r.boolean(&w.TopBottomVisible)
	case "SIDV":
		return r.boolean(&w.SideVisible)
	case "IMAG":
		return r.str(&w.Image)
	case "SIMG":
		return r.str(&w.SideImage)
	case "TOMA":
		return r.str(&w.TopMaterial)
	case "SIMA":
		return r.str(&w.SideMaterial)
	case "ELAS":
		return r.float(&w.Elasticity)
	case "WFCT":
		return r.float(&w.Friction)
	}
	return nil
}

func decodeRubber(r *biffReader, rb *Rubber) error {
	switch r.tag {
	case "NAME":
		return r.wide(&rb.Name)
	case "HTTP":
		return r.float(&rb.Height)
	case "WDTH":
		return r.intAsFloat(&rb.Thickness)
	case "CLDR":
		return r.boolean(&rb.Collidable)
	case "RVIS":
		return r.boolean(&rb.Visible)
	case "MATR":
		return r.str(&rb.Material)
	case "IMAG":
		return r.str(&rb.Image)
	case "ELAS":
		return r.float(&rb.Elasticity)
	case "RFCT":
		return r.float(&rb.Friction)
	}
	return nil
}

func decodeBumper(r *biffReader, b *Bumper) error {
	switch r.tag {
	case "NAME":
		return r.wide(&b.Name)
	case "VCEN":
		return r.vertex(&b.Center)
	case "RADI":
		return r.float(&b.Radius)
	case "FORC":
		return r.float(&b.Force)
	case "MATR":
		return r.str(&b.CapMaterial)
	case "BAMA":
		return r.str(&b.BaseMaterial)
	}
	return nil
}

func decodeKicker(r *biffReader, k *Kicker) error {
	switch r.tag {
	case "NAME":
		return r.wide(&k.Name)
	case "VCEN":
		return r.vertex(&k.Center)
	case "RADI":
		return r.float(&k.Radius)
	case "MATR":
		return r.str(&k.Material)
	}
	return nil
}

func decodeTrigger(r *biffReader, t *Trigger) error {
	switch r.tag {
	case "NAME":
		return r.wide(&t.Name)
	case "VCEN":
		return r.vertex(&t.Center)
	case "RADI":
		return r.float(&t.Radius)
	}
	return nil
}

func decodeLight(r *biffReader, l *Light) error {
	switch r.tag {
	case "NAME":
		return r.wide(&l.Name)
	case "VCEN":
		return r.vertex(&l.Center)
	case "RADI":
		return r.float(&l.FalloffRadius)
	case "BMSC":
		return r.float(&l.MeshRadius)
	case "BHHI":
		return r.float(&l.Height)
	case "COLR":
		return r.color(&l.Color)
	}
	return nil
}

func decodePlunger(r *biffReader, p *Plunger) error {
	switch r.tag {
	case "NAME":
		return r.wide(&p.Name)
	case "VCEN":
		return r.vertex(&p.Center)
	case "WDTH":
		return r.float(&p.Width)
	case "HIGH":
		return r.float(&p.Height)
	case "HPSL":
		return r.float(&p.Stroke)
	}
	return nil
}

func decodeFlipper(r *biffReader, f *Flipper) error {
	switch r.tag {
	case "NAME":
		return r.wide(&f.Name)
	case "VCEN":
		return r.vertex(&f.Center)
	case "BASR":
		return r.float(&f.BaseRadius)
	case "ENDR":
		return r.float(&f.EndRadius)
	case "FLPR":
		return r.float(&f.RadiusMax)
	case "ANGS":
		return r.float(&f.StartAngle)
	case "ANGE":
		return r.float(&f.EndAngle)
	case "FHGT":
		return r.float(&f.Height)
	case "MATR":
		return r.str(&f.Material)
	case "ELAS":
		return r.float(&f.Elasticity)
	}
	return nil
}
