package media

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"focustimer/internal/core/model"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const (
	// BellFrequency is the pitch of the fallback bell.
	BellFrequency = 880.0
	// BellLength is the length of one fallback bell.
	BellLength = 150 * time.Millisecond
	// BellGap separates the two fallback bells.
	BellGap = 120 * time.Millisecond
)

// Alarm rings when a session finishes: the configured sound file, or two
// short bells when no file is usable.
type Alarm struct {
	output Output
	open   OpenFunc

	mu        sync.Mutex
	enabled   bool
	soundFile string
}

// NewAlarm creates an alarm configured from the timer defaults.
func NewAlarm(output Output, defaults model.TimerDefaults) *Alarm {
	alarm := &Alarm{output: output, open: OpenFile}
	alarm.Configure(defaults)
	return alarm
}

// Configure applies the beep toggle and sound file.
func (alarm *Alarm) Configure(defaults model.TimerDefaults) {
	alarm.mu.Lock()
	defer alarm.mu.Unlock()
	alarm.enabled = defaults.Beep
	alarm.soundFile = strings.TrimSpace(defaults.SoundFile)
}

// Ring plays the alarm. Without an audio device it logs and returns.
func (alarm *Alarm) Ring() {
	alarm.mu.Lock()
	enabled := alarm.enabled
	soundFile := alarm.soundFile
	alarm.mu.Unlock()

	if !enabled || alarm.output == nil {
		return
	}

	streamer, err := alarm.stream(soundFile)
	if err != nil {
		log.Printf("alarm: %v", err)
		return
	}
	if err := alarm.output.Play(streamer); err != nil {
		if errors.Is(err, ErrNoPlayback) {
			log.Printf("alarm: no audio device, alarm skipped")
			return
		}
		log.Printf("alarm: play: %v", err)
	}
}

func (alarm *Alarm) stream(soundFile string) (beep.Streamer, error) {
	if soundFile != "" {
		decoded, format, err := alarm.open(soundFile)
		if err == nil {
			return beep.Seq(resample(decoded, format), beep.Callback(func() {
				decoded.Close()
			})), nil
		}
		log.Printf("alarm: sound file unusable, using bell: %v", err)
	}
	return Bells()
}

// Bells returns two short 880 Hz tones separated by BellGap.
func Bells() (beep.Streamer, error) {
	first, err := generators.SineTone(SampleRate, BellFrequency)
	if err != nil {
		return nil, err
	}
	second, err := generators.SineTone(SampleRate, BellFrequency)
	if err != nil {
		return nil, err
	}
	tones := beep.Seq(
		beep.Take(SampleRate.N(BellLength), first),
		generators.Silence(SampleRate.N(BellGap)),
		beep.Take(SampleRate.N(BellLength), second),
	)
	return &effects.Volume{Streamer: tones, Base: 2, Volume: -1}, nil
}
