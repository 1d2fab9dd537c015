// Package media plays the session alarm and the background music playlist
// through gopxl/beep.
package media

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// SampleRate is the output rate of the speaker.
const SampleRate beep.SampleRate = 44100

// ErrNoPlayback reports that no audio device is available.
var ErrNoPlayback = errors.New("audio playback unavailable")

// AudioExtensions lists the playable file extensions.
var AudioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".ogg": true,
}

// Output plays streamers. Lock and Unlock guard streamer state shared with
// the playback goroutine.
type Output interface {
	Play(streamer beep.Streamer) error
	Lock()
	Unlock()
}

// OpenFunc decodes an audio file.
type OpenFunc func(path string) (beep.StreamSeekCloser, beep.Format, error)

// Speaker is the Output backed by the system audio device.
type Speaker struct {
	once    sync.Once
	mu      sync.Mutex
	ready   bool
	initErr error
}

// Init opens the audio device once. Failure leaves playback disabled.
func (output *Speaker) Init() error {
	output.once.Do(func() {
		if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
			log.Printf("media: audio disabled: %v", err)
			output.initErr = fmt.Errorf("init speaker: %w", err)
			return
		}
		output.mu.Lock()
		output.ready = true
		output.mu.Unlock()
	})
	return output.initErr
}

func (output *Speaker) isReady() bool {
	output.mu.Lock()
	defer output.mu.Unlock()
	return output.ready
}

// Play mixes streamer into the device output.
func (output *Speaker) Play(streamer beep.Streamer) error {
	if !output.isReady() {
		return ErrNoPlayback
	}
	speaker.Play(streamer)
	return nil
}

// Lock locks the speaker mixer.
func (output *Speaker) Lock() {
	if output.isReady() {
		speaker.Lock()
	}
}

// Unlock unlocks the speaker mixer.
func (output *Speaker) Unlock() {
	if output.isReady() {
		speaker.Unlock()
	}
}

// Close stops playback and releases the device.
func (output *Speaker) Close() {
	if !output.isReady() {
		return
	}
	speaker.Clear()
	speaker.Close()
	output.mu.Lock()
	output.ready = false
	output.mu.Unlock()
}

// IsAudioFile reports whether path has a playable extension.
func IsAudioFile(path string) bool {
	return AudioExtensions[strings.ToLower(filepath.Ext(path))]
}

// ListTracks returns the playable files of dir sorted by name.
func ListTracks(dir string) []string {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("media: list tracks: %v", err)
		return nil
	}
	tracks := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsAudioFile(entry.Name()) {
			continue
		}
		tracks = append(tracks, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(tracks)
	return tracks
}

// OpenFile decodes a wav, mp3 or ogg file by extension.
func OpenFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open audio: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".ogg":
		streamer, format, err = vorbis.Decode(file)
	default:
		err = fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		file.Close()
		return nil, beep.Format{}, fmt.Errorf("decode audio %s: %w", filepath.Base(path), err)
	}
	return streamer, format, nil
}

// resample converts streamer to SampleRate when needed.
func resample(streamer beep.Streamer, format beep.Format) beep.Streamer {
	if format.SampleRate == SampleRate || format.SampleRate == 0 {
		return streamer
	}
	return beep.Resample(4, format.SampleRate, SampleRate, streamer)
}
