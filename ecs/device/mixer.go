package device

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/config"
	"github.com/milk9111/pinball/logger"
)

// panSteps quantizes pan so rendered buffers can be shared.
const panSteps = 10

var errSilent = errors.New("sound has no samples")

// SoundSource looks decoded sounds up by table name.
type SoundSource interface {
	Sound(name string) (*assets.Sound, error)
}

type voice struct {
	name   string
	pan    float64
	player *audio.Player
}

type bufferKey struct {
	name string
	pan  float64
}

// Mixer plays table sounds on the ebiten audio context.
type Mixer struct {
	mu      sync.Mutex
	ctx     *audio.Context
	sounds  SoundSource
	master  float64
	muted   bool
	buffers map[bufferKey][]byte
	shots   []*audio.Player
	voices  map[uint64]*voice
	log     *zap.Logger
}

// NewMixer opens the process audio context at the configured rate, or
// reuses the existing one.
func NewMixer(cfg config.AudioConfig) *Mixer {
	ctx := audio.CurrentContext()
	if ctx == nil {
		rate := cfg.SampleRate
		if rate <= 0 {
			rate = config.Default().Audio.SampleRate
		}
		ctx = audio.NewContext(rate)
	}
	return &Mixer{
		ctx:     ctx,
		master:  cfg.MasterVolume,
		muted:   cfg.Muted,
		buffers: make(map[bufferKey][]byte),
		voices:  make(map[uint64]*voice),
		log:     logger.Named("mixer"),
	}
}

// SetSounds swaps the sound source, dropping every cached buffer and voice.
func (m *Mixer) SetSounds(src SoundSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAll()
	m.sounds = src
	m.buffers = make(map[bufferKey][]byte)
}

func (m *Mixer) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	if muted {
		m.stopAll()
	}
}

func (m *Mixer) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mixer) Play(name string, volume, pan float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	if m.muted {
		return nil
	}

	pcm, err := m.buffer(name, pan)
	if err != nil {
		return err
	}
	p := m.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(m.volume(volume))
	p.Play()
	m.shots = append(m.shots, p)
	return nil
}

func (m *Mixer) Loop(key uint64, name string, volume, pan float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.muted {
		return nil
	}

	pan = QuantizePan(pan)
	v, ok := m.voices[key]
	if !ok || v.name != name || v.pan != pan {
		if ok {
			v.player.Close()
		}
		pcm, err := m.buffer(name, pan)
		if err != nil {
			delete(m.voices, key)
			return err
		}
		loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
		p, err := m.ctx.NewPlayer(loop)
		if err != nil {
			delete(m.voices, key)
			return fmt.Errorf("loop %s: %w", name, err)
		}
		v = &voice{name: name, pan: pan, player: p}
		m.voices[key] = v
	}
	v.player.SetVolume(m.volume(volume))
	if !v.player.IsPlaying() {
		v.player.Play()
	}
	return nil
}

func (m *Mixer) Stop(key uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.voices[key]; ok {
		v.player.Close()
		delete(m.voices, key)
	}
}

// Close stops everything that is playing.
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAll()
}

func (m *Mixer) volume(v float64) float64 {
	return math.Max(0, math.Min(1, v*m.master))
}

func (m *Mixer) buffer(name string, pan float64) ([]byte, error) {
	if m.sounds == nil {
		return nil, fmt.Errorf("play %s: no sounds loaded", name)
	}
	key := bufferKey{name: name, pan: QuantizePan(pan)}
	if pcm, ok := m.buffers[key]; ok {
		return pcm, nil
	}

	snd, err := m.sounds.Sound(name)
	if err != nil {
		return nil, err
	}
	if len(snd.PCM) == 0 {
		return nil, fmt.Errorf("play %s: %w", name, errSilent)
	}
	if snd.SampleRate != m.ctx.SampleRate() {
		m.log.Warn("sample rate mismatch", zap.String("sound", name), zap.Int("sound_rate", snd.SampleRate), zap.Int("context_rate", m.ctx.SampleRate()))
	}
	pcm, err := snd.Panned(key.pan)
	if err != nil {
		return nil, fmt.Errorf("pan %s: %w", name, err)
	}
	m.buffers[key] = pcm
	return pcm, nil
}

// prune closes one-shot players that finished.
func (m *Mixer) prune() {
	live := m.shots[:0]
	for _, p := range m.shots {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		p.Close()
	}
	m.shots = live
}

func (m *Mixer) stopAll() {
	for _, p := range m.shots {
		p.Close()
	}
	m.shots = m.shots[:0]
	for key, v := range m.voices {
		v.player.Close()
		delete(m.voices, key)
	}
}

// QuantizePan clamps pan to [-1, 1] and rounds it to a tenth.
func QuantizePan(pan float64) float64 {
	pan = math.Max(-1, math.Min(1, pan))
	return math.Round(pan*panSteps) / panSteps
}
