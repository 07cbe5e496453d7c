package viewer

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Sound plays short notification tones. Until Initialize succeeds every call is a no-op.
type Sound struct {
	mutex       sync.Mutex
	initialized bool
	mixer       *beep.Mixer
}

func NewSound() *Sound {
	return &Sound{
		mixer: &beep.Mixer{},
	}
}

func (s *Sound) Initialize() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Chime is the high tone played when an image is complete
func (s *Sound) Chime() {
	s.play(beep.Take(sampleRate.N(120*time.Millisecond), newTone(sampleRate, 880, 0.2)))
}

// Buzz is the low tone played when a render failed
func (s *Sound) Buzz() {
	s.play(beep.Take(sampleRate.N(150*time.Millisecond), newTone(sampleRate, 120, 0.3)))
}

func (s *Sound) play(streamer beep.Streamer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Add(streamer)
	speaker.Unlock()
}

func (s *Sound) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	s.initialized = false
}

// tone is a sine wave with its first overtone that fades in over 10ms
type tone struct {
	frequency float64
	position  int
	rate      beep.SampleRate
	volume    float64
}

func newTone(rate beep.SampleRate, frequency float64, volume float64) *tone {
	return &tone{
		frequency: frequency,
		rate:      rate,
		volume:    volume,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		seconds := float64(t.position) / float64(t.rate)
		sample := math.Sin(2*math.Pi*t.frequency*seconds) + 0.5*math.Sin(4*math.Pi*t.frequency*seconds)
		envelope := math.Min(seconds/0.01, 1)
		sample *= envelope * t.volume / 1.5

		samples[i][0] = sample
		samples[i][1] = sample
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error {
	return nil
}
