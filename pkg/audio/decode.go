package audio

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// Decoder converts raw audio bytes into analysis-ready mono PCM buffers
type Decoder struct {
	config *Config
	logger logging.Logger
}

// NewDecoder creates a decoder for the given settings
func NewDecoder(config *Config) *Decoder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component":   "audio_decoder",
			"sample_rate": config.SampleRate,
		}),
	}
}

// Decode turns raw bytes plus a declared file name into a Buffer. The format
// is taken from the content when it can be sniffed and from the extension
// otherwise. SourceDuration covers the full stream even when the samples are
// truncated to the analysis window.
func (d *Decoder) Decode(ctx context.Context, data []byte, fileName string) (*Buffer, error) {
	if len(data) == 0 {
		return nil, NewDecodeError(FormatUnknown, ErrCodeEmptyInput, "empty audio input", nil)
	}

	format := DetectFormat(data, fileName)
	if format == FormatUnknown {
		return nil, NewDecodeError(FormatUnknown, ErrCodeUnsupported,
			"unsupported audio format for "+fileName, nil)
	}

	logger := d.logger.WithFields(logging.Fields{
		"file_name": fileName,
		"format":    string(format),
		"bytes":     len(data),
	})
	logger.Debug("Decoding audio input")

	var (
		samples  []float64
		rate     int
		channels int
		err      error
	)

	switch format {
	case FormatWAV:
		samples, rate, channels, err = decodeWAV(data)
	case FormatMP3:
		samples, rate, channels, err = decodeMP3(data)
	case FormatFLAC:
		samples, rate, channels, err = decodeFLAC(data)
	case FormatM4A, FormatAAC:
		// ffmpeg downmixes and resamples in one pass
		samples, err = d.decodeWithFFmpeg(ctx, data, format)
		rate = d.config.SampleRate
		channels = 1
	default:
		return nil, NewDecodeError(format, ErrCodeUnsupported,
			"unsupported audio format for "+fileName, nil)
	}
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 || rate <= 0 || channels <= 0 {
		return nil, NewDecodeError(format, ErrCodeCorrupt, "decoded stream is empty", nil)
	}

	mono := DownmixMono(samples, channels)
	mono = Resample(mono, rate, d.config.SampleRate)

	sourceDuration := time.Duration(float64(len(mono)) / float64(d.config.SampleRate) * float64(time.Second))

	windowSamples := int(d.config.MaxAnalysisDuration.Seconds() * float64(d.config.SampleRate))
	truncated := false
	if windowSamples > 0 && len(mono) > windowSamples {
		mono = mono[:windowSamples]
		truncated = true
	}

	logger.Debug("Audio decoded", logging.Fields{
		"source_duration_s": sourceDuration.Seconds(),
		"analyzed_samples":  len(mono),
		"truncated":         truncated,
	})

	return &Buffer{
		Samples:        mono,
		SampleRate:     d.config.SampleRate,
		SourceDuration: sourceDuration,
		Truncated:      truncated,
	}, nil
}

// DetectFormat identifies the audio format from content magic bytes, falling
// back to the declared file extension
func DetectFormat(data []byte, fileName string) Format {
	if format := sniffFormat(data); format != FormatUnknown {
		return format
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".mp3":
		return FormatMP3
	case ".wav":
		return FormatWAV
	case ".flac":
		return FormatFLAC
	case ".m4a":
		return FormatM4A
	case ".aac":
		return FormatAAC
	}
	return FormatUnknown
}

// sniffFormat inspects leading magic bytes
func sniffFormat(data []byte) Format {
	if len(data) < 12 {
		return FormatUnknown
	}
	switch {
	case bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3
	case data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG sync word; ADTS AAC shares it but carries a layer of 0
		if data[1]&0x06 == 0 {
			return FormatAAC
		}
		return FormatMP3
	case bytes.Equal(data[4:8], []byte("ftyp")):
		return FormatM4A
	}
	return FormatUnknown
}

func decodeWAV(data []byte) ([]float64, int, int, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, 0, 0, NewDecodeError(FormatWAV, ErrCodeCorrupt, "invalid WAV stream", d.Err())
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, NewDecodeError(FormatWAV, ErrCodeCorrupt, "failed to read WAV samples", err)
	}
	if buf.Format == nil || len(buf.Data) == 0 {
		return nil, 0, 0, NewDecodeError(FormatWAV, ErrCodeCorrupt, "WAV stream has no samples", nil)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(d.BitDepth)
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / scale
	}
	return samples, buf.Format.SampleRate, buf.Format.NumChannels, nil
}

func decodeMP3(data []byte) ([]float64, int, int, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, NewDecodeError(FormatMP3, ErrCodeCorrupt, "invalid MP3 stream", err)
	}

	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, 0, NewDecodeError(FormatMP3, ErrCodeCorrupt, "failed to decode MP3 frames", err)
	}

	// go-mp3 always emits 16-bit little-endian stereo
	sampleCount := len(pcm) / 2
	samples := make([]float64, sampleCount)
	for i := range sampleCount {
		s := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		samples[i] = float64(s) / 32768.0
	}
	return samples, d.SampleRate(), 2, nil
}

func decodeFLAC(data []byte) ([]float64, int, int, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, NewDecodeError(FormatFLAC, ErrCodeCorrupt, "invalid FLAC stream", err)
	}

	channels := int(stream.Info.NChannels)
	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))

	var samples []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, NewDecodeError(FormatFLAC, ErrCodeCorrupt, "failed to decode FLAC frame", err)
		}
		if len(frame.Subframes) == 0 {
			continue
		}

		n := len(frame.Subframes[0].Samples)
		for i := range n {
			for ch := range channels {
				if ch < len(frame.Subframes) && i < len(frame.Subframes[ch].Samples) {
					samples = append(samples, float64(frame.Subframes[ch].Samples[i])/scale)
				} else {
					samples = append(samples, 0)
				}
			}
		}
	}
	return samples, int(stream.Info.SampleRate), channels, nil
}
