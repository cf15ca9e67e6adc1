package vpx

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// WaveFormat mirrors the WAVEFORMATEX header stored ahead of wav samples.
type WaveFormat struct {
	FormatTag      uint16
	Channels       uint16
	SamplesPerSec  uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	CbSize         uint16
}

// Sound is an embedded sound effect. Wav sounds keep only their sample data
// and format header; other formats keep the whole file.
type Sound struct {
	Name         string
	Path         string
	InternalName string
	Wave         *WaveFormat
	Data         []byte
	OutputTarget uint8
	Volume       int32
	Balance      int32
	Fade         int32
}

// IsWAV reports whether the sound was imported from a wav file.
func (s *Sound) IsWAV() bool {
	return strings.HasSuffix(strings.ToLower(s.Path), ".wav")
}

// Encoded returns a playable file image of the sound: a RIFF wrapper
// around the stored samples for wav sounds, the stored bytes otherwise.
func (s *Sound) Encoded() []byte {
	if !s.IsWAV() || s.Wave == nil {
		return s.Data
	}
	var buf bytes.Buffer
	le := binary.LittleEndian
	buf.WriteString("RIFF")
	binary.Write(&buf, le, uint32(36+len(s.Data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, le, uint32(16))
	binary.Write(&buf, le, s.Wave.FormatTag)
	binary.Write(&buf, le, s.Wave.Channels)
	binary.Write(&buf, le, s.Wave.SamplesPerSec)
	binary.Write(&buf, le, s.Wave.AvgBytesPerSec)
	binary.Write(&buf, le, s.Wave.BlockAlign)
	binary.Write(&buf, le, s.Wave.BitsPerSample)
	buf.WriteString("data")
	binary.Write(&buf, le, uint32(len(s.Data)))
	buf.Write(s.Data)
	return buf.Bytes()
}

// byteReader reads the fixed layout of sound streams.
type byteReader struct {
	stream string
	data   []byte
	pos    int
}

func (r *byteReader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, &ParseError{Stream: r.stream, Offset: int64(r.pos), Err: ErrTruncated}
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *byteReader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) blob() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	return r.take(int(int32(n)))
}

func (r *byteReader) str() (string, error) {
	b, err := r.blob()
	if err != nil {
		return "", err
	}
	return decodeANSI(b)
}

func (r *byteReader) left() int {
	return len(r.data) - r.pos
}

func parseSound(stream string, data []byte) (Sound, error) {
	r := &byteReader{stream: stream, data: data}
	var (
		s   Sound
		err error
	)
	if s.Name, err = r.str(); err != nil {
		return Sound{}, err
	}
	if s.Path, err = r.str(); err != nil {
		return Sound{}, err
	}
	if s.InternalName, err = r.str(); err != nil {
		return Sound{}, err
	}
	if s.IsWAV() {
		w := &WaveFormat{}
		for _, f := range []any{&w.FormatTag, &w.Channels, &w.SamplesPerSec, &w.AvgBytesPerSec, &w.BlockAlign, &w.BitsPerSample, &w.CbSize} {
			switch dst := f.(type) {
			case *uint16:
				*dst, err = r.u16()
			case *uint32:
				*dst, err = r.u32()
			}
			if err != nil {
				return Sound{}, err
			}
		}
		s.Wave = w
	}
	if s.Data, err = r.blob(); err != nil {
		return Sound{}, err
	}

	// Playback settings were appended in later file versions.
	if r.left() >= 1 {
		b, _ := r.take(1)
		s.OutputTarget = b[0]
	}
	for _, dst := range []*int32{&s.Volume, &s.Balance, &s.Fade} {
		if r.left() < 4 {
			break
		}
		v, _ := r.u32()
		*dst = int32(v)
	}
	return s, nil
}
