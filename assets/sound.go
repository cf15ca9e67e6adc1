package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/milk9111/pinball/vpx"
)

// Sound is a decoded sound effect as 16-bit little-endian stereo PCM.
type Sound struct {
	Name       string
	SampleRate int
	PCM        []byte
	Duration   time.Duration
}

const bytesPerFrame = 4

func decodeSound(s *vpx.Sound, sampleRate int) (*Sound, error) {
	data := s.Encoded()
	if len(data) == 0 {
		return &Sound{Name: s.Name, SampleRate: sampleRate}, nil
	}

	rc := io.NopCloser(bytes.NewReader(data))
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch {
	case s.IsWAV() || bytes.HasPrefix(data, []byte("RIFF")):
		streamer, format, err = wav.Decode(rc)
	case bytes.HasPrefix(data, []byte("OggS")):
		streamer, format, err = vorbis.Decode(rc)
	case isMP3(data):
		streamer, format, err = mp3.Decode(rc)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	target := beep.SampleRate(sampleRate)
	var resampled beep.Streamer = streamer
	if format.SampleRate != target {
		resampled = beep.Resample(4, format.SampleRate, target, streamer)
	}

	pcm, err := render(resampled)
	if err != nil {
		return nil, err
	}
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}

	return &Sound{
		Name:       s.Name,
		SampleRate: sampleRate,
		PCM:        pcm,
		Duration:   target.D(len(pcm) / bytesPerFrame),
	}, nil
}

// render drains s into interleaved 16-bit stereo samples.
func render(s beep.Streamer) ([]byte, error) {
	var out bytes.Buffer
	buf := make([][2]float64, 512)
	frame := make([]byte, bytesPerFrame)
	for {
		n, ok := s.Stream(buf)
		for _, sample := range buf[:n] {
			binary.LittleEndian.PutUint16(frame[0:], uint16(toInt16(sample[0])))
			binary.LittleEndian.PutUint16(frame[2:], uint16(toInt16(sample[1])))
			out.Write(frame)
		}
		if !ok || n == 0 {
			break
		}
	}
	return out.Bytes(), s.Err()
}

func toInt16(v float64) int16 {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}

func isMP3(data []byte) bool {
	if bytes.HasPrefix(data, []byte("ID3")) {
		return true
	}
	return len(data) > 1 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

// Streamer plays the decoded samples back as a beep stream.
func (s *Sound) Streamer() beep.Streamer {
	pcm := s.PCM
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if len(pcm) < bytesPerFrame {
			return 0, false
		}
		n := 0
		for n < len(samples) && len(pcm) >= bytesPerFrame {
			samples[n][0] = float64(int16(binary.LittleEndian.Uint16(pcm[0:]))) / 32767
			samples[n][1] = float64(int16(binary.LittleEndian.Uint16(pcm[2:]))) / 32767
			pcm = pcm[bytesPerFrame:]
			n++
		}
		return n, true
	})
}

// Panned renders the sound shifted between the speakers: -1 is fully left,
// 1 fully right, 0 leaves it unchanged.
func (s *Sound) Panned(pan float64) ([]byte, error) {
	if pan == 0 || len(s.PCM) == 0 {
		return s.PCM, nil
	}
	if pan < -1 {
		pan = -1
	}
	if pan > 1 {
		pan = 1
	}
	return render(&effects.Pan{Streamer: s.Streamer(), Pan: pan})
}
