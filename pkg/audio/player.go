package audio

import (
	"bytes"
	"sync"
	"time"

	"github.com/borgmon/magic-timer/pkg/log"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	globalAudioFormat  Sound // SampleRate and Channels of the context
	audioCtxReady      bool
)

// initAudioContext initializes the global audio context once, using the
// format of the first sound played
func initAudioContext(sound *Sound) {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sound.SampleRate,
			ChannelCount: sound.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize audio context")
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		globalAudioFormat = Sound{SampleRate: sound.SampleRate, Channels: sound.Channels}
		audioCtxReady = true
		log.Info().Int("sample_rate", sound.SampleRate).Int("channels", sound.Channels).Msg("audio context initialized")
	})
}

// Player plays one alert sound at a time. Starting a sound stops the previous
// one, and Stop may be called at any time.
type Player struct {
	mu      sync.Mutex
	current *playback
}

// NewPlayer creates a Player. The audio device is opened on first use.
func NewPlayer() *Player {
	return &Player{}
}

// Play decodes path and starts playing it in the background. Decoding errors
// are returned as *PlaybackError; device errors are only logged.
func (p *Player) Play(path string) error {
	sound, err := DecodeFile(path)
	if err != nil {
		return err
	}

	pb := &playback{stopChan: make(chan struct{})}

	p.mu.Lock()
	p.current.stop()
	p.current = pb
	p.mu.Unlock()

	go pb.run(path, sound)
	return nil
}

// Stop stops the sound that is currently playing, if any
func (p *Player) Stop() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current.stop()
	p.current = nil
}

// playback is a single sound with cancellation support
type playback struct {
	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
	player   *oto.Player
}

func (pb *playback) run(path string, sound *Sound) {
	initAudioContext(sound)
	if !audioCtxReady || globalAudioCtx == nil {
		log.Warn().Str("path", path).Msg("audio context not ready")
		return
	}

	if sound.SampleRate != globalAudioFormat.SampleRate {
		log.Warn().
			Str("path", path).
			Int("sample_rate", sound.SampleRate).
			Int("device_rate", globalAudioFormat.SampleRate).
			Msg("sample rate differs from audio context, playback speed will be off")
	}
	data := convertChannels(sound.Data, sound.Channels, globalAudioFormat.Channels)

	pb.mu.Lock()
	if pb.stopped {
		pb.mu.Unlock()
		return
	}
	pb.player = globalAudioCtx.NewPlayer(bytes.NewReader(data))
	pb.player.Play()
	pb.mu.Unlock()

	// Wait for the sound to finish playing or stop signal
	for pb.player.IsPlaying() {
		select {
		case <-pb.stopChan:
			pb.player.Pause()
			if err := pb.player.Close(); err != nil {
				log.Debug().Err(err).Msg("failed to close audio player")
			}
			return
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := pb.player.Close(); err != nil {
		log.Debug().Err(err).Msg("failed to close audio player")
	}
}

func (pb *playback) stop() {
	if pb == nil {
		return
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()

	if !pb.stopped {
		pb.stopped = true
		close(pb.stopChan)

		if pb.player != nil {
			pb.player.Pause()
		}
	}
}
