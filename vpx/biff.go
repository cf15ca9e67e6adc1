package vpx

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const tagEnd = "ENDB"

// biffReader walks the tagged records of one stream. Each record is an
// int32 length (counting the four tag bytes), the tag and the payload.
type biffReader struct {
	stream string
	data   []byte
	pos    int

	tag  string
	body []byte
	at   int
}

func newBiffReader(stream string, data []byte) *biffReader {
	return &biffReader{stream: stream, data: data}
}

func (r *biffReader) errorf(err error, format string, args ...any) error {
	return &ParseError{Stream: r.stream, Offset: int64(r.at), Err: fmt.Errorf("%w: "+format, append([]any{err}, args...)...)}
}

func (r *biffReader) truncated() error {
	return &ParseError{Stream: r.stream, Offset: int64(r.pos), Err: ErrTruncated}
}

// next advances to the following record. It returns false after ENDB.
func (r *biffReader) next() (bool, error) {
	r.at = r.pos
	if r.pos+8 > len(r.data) {
		return false, r.truncated()
	}
	n := int(int32(binary.LittleEndian.Uint32(r.data[r.pos:])))
	tag := string(r.data[r.pos+4 : r.pos+8])
	if n < 4 {
		return false, r.errorf(ErrBadRecord, "record %q has length %d", tag, n)
	}
	start := r.pos + 8
	end := r.pos + 4 + n
	if end > len(r.data) {
		return false, r.truncated()
	}
	r.tag = tag
	r.body = r.data[start:end]
	r.pos = end
	if tag == "CODE" {
		// The script follows the record as its own length prefixed blob.
		if r.pos+4 > len(r.data) {
			return false, r.truncated()
		}
		code := int(int32(binary.LittleEndian.Uint32(r.data[r.pos:])))
		if code < 0 || r.pos+4+code > len(r.data) {
			return false, r.truncated()
		}
		r.body = r.data[r.pos+4 : r.pos+4+code]
		r.pos += 4 + code
	}
	return tag != tagEnd, nil
}

// remaining returns the unread bytes after the current record.
func (r *biffReader) remaining() []byte {
	return r.data[r.pos:]
}

func (r *biffReader) need(n int) error {
	if len(r.body) < n {
		return &ParseError{Stream: r.stream, Offset: int64(r.at), Err: fmt.Errorf("%w: record %q needs %d bytes, has %d", ErrTruncated, r.tag, n, len(r.body))}
	}
	return nil
}

func (r *biffReader) readFloat() (float64, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(r.body))), nil
}

func (r *biffReader) readInt() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(r.body)), nil
}

func (r *biffReader) readUint() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.body), nil
}

func (r *biffReader) readBool() (bool, error) {
	v, err := r.readInt()
	return v != 0, err
}

func (r *biffReader) readVertex() (Vertex2D, error) {
	if err := r.need(8); err != nil {
		return Vertex2D{}, err
	}
	return Vertex2D{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(r.body))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(r.body[4:]))),
	}, nil
}

func (r *biffReader) readColor() (Color, error) {
	v, err := r.readUint()
	return colorFromRef(v), err
}

// readString decodes an int32 length prefixed Windows-1252 string.
func (r *biffReader) readString() (string, error) {
	raw, err := r.prefixed()
	if err != nil {
		return "", err
	}
	return decodeANSI(raw)
}

// readWideString decodes an int32 byte-length prefixed UTF-16LE string.
func (r *biffReader) readWideString() (string, error) {
	raw, err := r.prefixed()
	if err != nil {
		return "", err
	}
	return decodeWide(raw)
}

func (r *biffReader) prefixed() ([]byte, error) {
	if err := r.need(4); err != nil {
		return nil, err
	}
	n := int(int32(binary.LittleEndian.Uint32(r.body)))
	if n < 0 || 4+n > len(r.body) {
		return nil, r.errorf(ErrTruncated, "string in %q claims %d bytes", r.tag, n)
	}
	return r.body[4 : 4+n], nil
}

func decodeANSI(raw []byte) (string, error) {
	s, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(s), "\x00"), nil
}

func decodeWide(raw []byte) (string, error) {
	s, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(s), "\x00"), nil
}

func colorFromRef(v uint32) Color {
	return Color{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16)}
}
