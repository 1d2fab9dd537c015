package media

import (
	"errors"
	"log"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"focustimer/internal/core/model"

	"github.com/gopxl/beep"
)

// MusicPollInterval is how often the playlist worker applies pause changes.
const MusicPollInterval = 200 * time.Millisecond

// ErrNoTracks reports a music directory without playable files.
var ErrNoTracks = errors.New("no playable tracks")

// Music plays a directory of tracks in a loop on a worker goroutine.
type Music struct {
	output Output
	open   OpenFunc
	rng    *rand.Rand
	poll   time.Duration

	mu      sync.Mutex
	running bool
	paused  bool
	current string
	stopCh  chan struct{}
	nextCh  chan struct{}
	doneCh  chan struct{}
}

// NewMusic creates an idle player. A nil rng seeds one from the clock.
func NewMusic(output Output, rng *rand.Rand) *Music {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Music{output: output, open: OpenFile, rng: rng, poll: MusicPollInterval}
}

// Playlist returns the tracks of dir, shuffled when asked.
func (music *Music) Playlist(settings model.MusicSettings) []string {
	tracks := ListTracks(settings.Dir)
	if settings.Shuffle {
		music.mu.Lock()
		music.rng.Shuffle(len(tracks), func(i, j int) {
			tracks[i], tracks[j] = tracks[j], tracks[i]
		})
		music.mu.Unlock()
	}
	return tracks
}

// Start replaces any running playlist with the tracks of settings.Dir.
func (music *Music) Start(settings model.MusicSettings) error {
	if music.output == nil {
		return ErrNoPlayback
	}
	tracks := music.Playlist(settings)
	if len(tracks) == 0 {
		return ErrNoTracks
	}
	music.Stop()

	music.mu.Lock()
	music.running = true
	music.paused = false
	music.stopCh = make(chan struct{})
	music.nextCh = make(chan struct{}, 1)
	music.doneCh = make(chan struct{})
	stop, next, done := music.stopCh, music.nextCh, music.doneCh
	music.mu.Unlock()

	go music.loop(tracks, settings.Shuffle, stop, next, done)
	return nil
}

// Toggle pauses or resumes playback. The worker applies it on its next poll.
func (music *Music) Toggle() {
	music.mu.Lock()
	defer music.mu.Unlock()
	if music.running {
		music.paused = !music.paused
	}
}

// Next skips to the following track.
func (music *Music) Next() {
	music.mu.Lock()
	next := music.nextCh
	running := music.running
	music.mu.Unlock()
	if !running {
		return
	}
	select {
	case next <- struct{}{}:
	default:
	}
}

// Stop ends playback and waits for the worker to exit.
func (music *Music) Stop() {
	music.mu.Lock()
	if !music.running {
		music.mu.Unlock()
		return
	}
	music.running = false
	music.paused = false
	close(music.stopCh)
	done := music.doneCh
	music.mu.Unlock()

	<-done
}

// Running reports whether the worker is active.
func (music *Music) Running() bool {
	music.mu.Lock()
	defer music.mu.Unlock()
	return music.running
}

// Paused reports whether playback is paused.
func (music *Music) Paused() bool {
	music.mu.Lock()
	defer music.mu.Unlock()
	return music.paused
}

// Current returns the file name of the playing track.
func (music *Music) Current() string {
	music.mu.Lock()
	defer music.mu.Unlock()
	return filepath.Base(music.current)
}

func (music *Music) loop(tracks []string, shuffle bool, stop <-chan struct{}, next <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer music.setCurrent("")

	failures := 0
	for index := 0; ; index = (index + 1) % len(tracks) {
		if index == 0 && shuffle && failures == 0 {
			music.mu.Lock()
			music.rng.Shuffle(len(tracks), func(i, j int) {
				tracks[i], tracks[j] = tracks[j], tracks[i]
			})
			music.mu.Unlock()
		}

		result := music.play(tracks[index], stop, next)
		switch result {
		case trackStopped:
			return
		case trackUnavailable:
			return
		case trackFailed:
			failures++
			if failures >= len(tracks) {
				log.Printf("music: no track in the playlist could be decoded")
				music.markStopped()
				return
			}
		default:
			failures = 0
		}
	}
}

type trackResult int

const (
	trackEnded trackResult = iota
	trackSkipped
	trackStopped
	trackFailed
	trackUnavailable
)

func (music *Music) play(path string, stop <-chan struct{}, next <-chan struct{}) trackResult {
	decoded, format, err := music.open(path)
	if err != nil {
		log.Printf("music: %v", err)
		return trackFailed
	}
	defer decoded.Close()

	finished := make(chan struct{})
	ctrl := &beep.Ctrl{Streamer: beep.Seq(resample(decoded, format), beep.Callback(func() {
		close(finished)
	}))}
	if err := music.output.Play(ctrl); err != nil {
		log.Printf("music: %v", err)
		music.markStopped()
		return trackUnavailable
	}
	music.setCurrent(path)

	ticker := time.NewTicker(music.poll)
	defer ticker.Stop()

	silence := func() {
		music.output.Lock()
		ctrl.Streamer = nil
		music.output.Unlock()
	}
	for {
		select {
		case <-stop:
			silence()
			return trackStopped
		case <-next:
			silence()
			return trackSkipped
		case <-finished:
			return trackEnded
		case <-ticker.C:
			paused := music.Paused()
			music.output.Lock()
			ctrl.Paused = paused
			music.output.Unlock()
		}
	}
}

func (music *Music) setCurrent(path string) {
	music.mu.Lock()
	music.current = path
	music.mu.Unlock()
}

func (music *Music) markStopped() {
	music.mu.Lock()
	music.running = false
	music.paused = false
	music.mu.Unlock()
}
