package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/go-mp3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoSound           = errors.New("no sound file configured")
)

// PlaybackError wraps any failure to play a sound file
type PlaybackError struct {
	Path string
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("play %q: %v", e.Path, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// Sound is decoded signed 16-bit little-endian PCM
type Sound struct {
	SampleRate int
	Channels   int
	Data       []byte
}

// Supported reports whether path has an extension the player can decode
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".mp3":
		return true
	}
	return false
}

// DecodeFile reads and decodes a .wav or .mp3 file
func DecodeFile(path string) (*Sound, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &PlaybackError{Path: path, Err: ErrNoSound}
	}
	if !Supported(path) {
		return nil, &PlaybackError{Path: path, Err: ErrUnsupportedFormat}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PlaybackError{Path: path, Err: err}
	}

	var sound *Sound
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		sound, err = decodeMP3(data)
	} else {
		sound, err = decodeWAV(data)
	}
	if err != nil {
		return nil, &PlaybackError{Path: path, Err: err}
	}
	return sound, nil
}

func decodeMP3(data []byte) (*Sound, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	// go-mp3 always produces 16-bit stereo
	return &Sound{SampleRate: d.SampleRate(), Channels: 2, Data: pcm}, nil
}

// wavFormat holds WAV file format information
type wavFormat struct {
	AudioFormat uint16
	SampleRate  int
	Channels    int
	BitDepth    int
}

func decodeWAV(data []byte) (*Sound, error) {
	format, pcm, err := parseWAV(data)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if format.AudioFormat != 1 || format.BitDepth != 16 {
		return nil, fmt.Errorf("%w: wav format %d, %d-bit (want 16-bit PCM)", ErrUnsupportedFormat, format.AudioFormat, format.BitDepth)
	}
	if format.Channels < 1 || format.Channels > 2 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedFormat, format.Channels, format.SampleRate)
	}
	return &Sound{SampleRate: format.SampleRate, Channels: format.Channels, Data: pcm}, nil
}

// parseWAV parses a RIFF/WAVE file and returns the format and audio data
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	reader := bytes.NewReader(data)

	header := make([]byte, 12)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, nil, errors.New("not a RIFF/WAVE file")
	}

	var format *wavFormat
	for {
		chunkID := make([]byte, 4)
		if _, err := io.ReadFull(reader, chunkID); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, err
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		switch string(chunkID) {
		case "fmt ":
			if chunkSize < 16 {
				return nil, nil, errors.New("fmt chunk too short")
			}
			var fmtChunk struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(reader, binary.LittleEndian, &fmtChunk); err != nil {
				return nil, nil, err
			}
			format = &wavFormat{
				AudioFormat: fmtChunk.AudioFormat,
				Channels:    int(fmtChunk.NumChannels),
				SampleRate:  int(fmtChunk.SampleRate),
				BitDepth:    int(fmtChunk.BitsPerSample),
			}
			// Skip any extra format bytes
			if _, err := reader.Seek(int64(chunkSize-16), io.SeekCurrent); err != nil {
				return nil, nil, err
			}
		case "data":
			if format == nil {
				return nil, nil, errors.New("data chunk before fmt chunk")
			}
			size := int(chunkSize)
			if size > reader.Len() {
				size = reader.Len()
			}
			audioData := make([]byte, size)
			if _, err := io.ReadFull(reader, audioData); err != nil {
				return nil, nil, err
			}
			return format, audioData, nil
		default:
			// Chunks are word aligned
			skip := int64(chunkSize) + int64(chunkSize%2)
			if _, err := reader.Seek(skip, io.SeekCurrent); err != nil {
				return nil, nil, err
			}
		}
	}

	return nil, nil, errors.New("no data chunk")
}

// convertChannels up- or down-mixes 16-bit PCM between mono and stereo
func convertChannels(pcm []byte, from, to int) []byte {
	if from == to {
		return pcm
	}
	switch {
	case from == 1 && to == 2:
		out := make([]byte, 0, len(pcm)*2)
		for i := 0; i+1 < len(pcm); i += 2 {
			out = append(out, pcm[i], pcm[i+1], pcm[i], pcm[i+1])
		}
		return out
	case from == 2 && to == 1:
		out := make([]byte, 0, len(pcm)/2)
		for i := 0; i+3 < len(pcm); i += 4 {
			l := int32(int16(binary.LittleEndian.Uint16(pcm[i:])))
			r := int32(int16(binary.LittleEndian.Uint16(pcm[i+2:])))
			out = binary.LittleEndian.AppendUint16(out, uint16(int16((l+r)/2)))
		}
		return out
	}
	return pcm
}
