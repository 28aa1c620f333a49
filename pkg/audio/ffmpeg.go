package audio

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
)

// decodeWithFFmpeg pipes M4A/AAC bytes through ffmpeg, receiving mono
// 16-bit PCM at the analysis sample rate. ffmpeg handles both container
// parsing and resampling, so the returned samples need no further conversion.
func (d *Decoder) decodeWithFFmpeg(ctx context.Context, data []byte, format Format) ([]float64, error) {
	binary := d.config.FFmpegPath
	if binary == "" {
		binary = "ffmpeg"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, NewDecodeError(format, ErrCodeTranscode, "ffmpeg binary not found", err)
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.config.SampleRate),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = bytes.NewReader(data)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := "ffmpeg failed to decode stream"
		if s := stderr.String(); s != "" {
			msg += ": " + s
		}
		return nil, NewDecodeError(format, ErrCodeCorrupt, msg, err)
	}

	pcm := stdout.Bytes()
	sampleCount := len(pcm) / 2
	if sampleCount == 0 {
		return nil, NewDecodeError(format, ErrCodeCorrupt, "ffmpeg produced no samples", nil)
	}

	samples := make([]float64, sampleCount)
	for i := range sampleCount {
		s := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		samples[i] = float64(s) / 32768.0
	}
	return samples, nil
}
