package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// defaultSampleRate частота, с которой инициализируется динамик
const defaultSampleRate = beep.SampleRate(44100)

// SpeakerEngine воспроизводит треки через beep/speaker.
// Динамик инициализируется один раз на процесс.
type SpeakerEngine struct {
	mu          sync.Mutex
	sampleRate  beep.SampleRate
	initialized bool
}

// NewSpeakerEngine создает движок
func NewSpeakerEngine() *SpeakerEngine {
	return &SpeakerEngine{sampleRate: defaultSampleRate}
}

// Activate инициализирует динамик
func (e *SpeakerEngine) Activate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}
	if err := speaker.Init(e.sampleRate, e.sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("ошибка инициализации динамиков: %w", err)
	}
	e.initialized = true
	return nil
}

// Open декодирует файл и готовит его к воспроизведению
func (e *SpeakerEngine) Open(path string) (Playback, error) {
	if err := e.Activate(); err != nil {
		return nil, err
	}

	streamer, format, err := Decode(path)
	if err != nil {
		return nil, err
	}

	// Приводим частоту к частоте динамика
	resampled := beep.Resample(4, format.SampleRate, e.sampleRate, streamer)
	ctrl := &beep.Ctrl{Streamer: resampled, Paused: true}

	return &speakerPlayback{
		streamer: streamer,
		format:   format,
		ctrl:     ctrl,
		volume:   &effects.Volume{Streamer: ctrl, Base: 2},
	}, nil
}

// speakerPlayback реализует Playback
type speakerPlayback struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	started  bool
	stopped  bool

	// finished выставляется из потока динамика, поэтому без мьютекса
	finished atomic.Bool
}

func (p *speakerPlayback) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}

	// Доигранный трек снова ставится в динамик, если позицию вернули назад
	if p.finished.Load() {
		speaker.Lock()
		atEnd := p.streamer.Position() >= p.streamer.Len()
		speaker.Unlock()
		if atEnd {
			return
		}
		p.finished.Store(false)
		p.started = false
	}

	if !p.started {
		p.started = true
		speaker.Lock()
		p.ctrl.Paused = false
		speaker.Unlock()
		speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
			p.finished.Store(true)
		})))
		return
	}

	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
}

func (p *speakerPlayback) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

// Stop останавливает трек и освобождает декодер
func (p *speakerPlayback) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true

	// Ctrl без потока завершает последовательность в динамике
	speaker.Lock()
	p.ctrl.Paused = true
	p.ctrl.Streamer = nil
	speaker.Unlock()

	p.streamer.Close()
}

func (p *speakerPlayback) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.stopped || p.finished.Load() {
		return false
	}
	speaker.Lock()
	paused := p.ctrl.Paused
	speaker.Unlock()
	return !paused
}

func (p *speakerPlayback) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return 0
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

func (p *speakerPlayback) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

func (p *speakerPlayback) Seek(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil
	}

	samples := p.format.SampleRate.N(d)
	if samples < 0 {
		samples = 0
	}
	if samples > p.streamer.Len() {
		samples = p.streamer.Len()
	}

	speaker.Lock()
	defer speaker.Unlock()
	if err := p.streamer.Seek(samples); err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}
	return nil
}

func (p *speakerPlayback) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	silent, level := volumeLevel(v)
	speaker.Lock()
	p.volume.Silent = silent
	p.volume.Volume = level
	speaker.Unlock()
}

// volumeLevel переводит линейную громкость 0..1 в уровень effects.Volume с основанием 2
func volumeLevel(v float64) (silent bool, level float64) {
	if v <= 0 {
		return true, 0
	}
	if v > 1 {
		v = 1
	}
	return false, math.Log2(v)
}
