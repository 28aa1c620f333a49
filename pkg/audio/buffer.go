// Package audio loads raw audio bytes into mono PCM buffers suitable for
// feature extraction. WAV, MP3 and FLAC are decoded natively; M4A and AAC go
// through an ffmpeg transcode pipe. All decode paths converge on a fixed
// analysis sample rate and a bounded analysis window.
package audio

import "time"

// Format identifies a supported audio container/codec
type Format string

const (
	FormatMP3     Format = "mp3"
	FormatWAV     Format = "wav"
	FormatFLAC    Format = "flac"
	FormatM4A     Format = "m4a"
	FormatAAC     Format = "aac"
	FormatUnknown Format = "unknown"
)

// Buffer holds decoded mono PCM samples at a fixed analysis sample rate.
// It is owned by a single pipeline invocation and never persisted; extractors
// treat it as immutable.
type Buffer struct {
	Samples    []float64
	SampleRate int

	// SourceDuration is the duration of the full decoded stream, not just
	// the analysis window.
	SourceDuration time.Duration

	// Truncated reports that the source was longer than the analysis window
	// and only the leading window is present in Samples.
	Truncated bool
}

// Duration returns the span of audio actually held in Samples.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// IsSilent reports whether every sample is exactly zero. Silent input is
// degenerate but valid: extractors produce zero-valued descriptors for it.
func (b *Buffer) IsSilent() bool {
	for _, s := range b.Samples {
		if s != 0 {
			return false
		}
	}
	return true
}
