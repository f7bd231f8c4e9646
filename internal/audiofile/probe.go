package audiofile

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ProbeDuration reads the duration in seconds of a WAV file without
// decoding its samples. Non-WAV formats report an UnsupportedFormatError;
// their duration has to come from the playing client instead. The probe is
// bounded by ctx: on expiry it returns ErrProbeTimeout and the caller
// treats the audio operation as failed.
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	if strings.ToLower(filepath.Ext(path)) != ".wav" {
		return 0, &UnsupportedFormatError{Name: filepath.Base(path)}
	}

	type result struct {
		duration float64
		err      error
	}
	done := make(chan result, 1)

	go func() {
		d, err := wavDuration(path)
		done <- result{duration: d, err: err}
	}()

	select {
	case r := <-done:
		return r.duration, r.err
	case <-ctx.Done():
		return 0, ErrProbeTimeout
	}
}

// wavDuration walks the RIFF chunks for fmt's byte rate and data's size.
func wavDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open audio file: %w", err)
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a WAV file")
	}

	var byteRate uint32
	chunk := make([]byte, 8)
	for {
		if _, err := io.ReadFull(f, chunk); err != nil {
			return 0, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			fmtData := make([]byte, size+size%2)
			if _, err := io.ReadFull(f, fmtData); err != nil {
				return 0, fmt.Errorf("read fmt chunk: %w", err)
			}
			if len(fmtData) < 16 {
				return 0, fmt.Errorf("fmt chunk too short")
			}
			byteRate = binary.LittleEndian.Uint32(fmtData[8:12])
		case "data":
			if byteRate == 0 {
				return 0, fmt.Errorf("data chunk before fmt chunk")
			}
			return float64(size) / float64(byteRate), nil
		default:
			// RIFF chunks are word-aligned; an odd size carries a pad byte.
			if _, err := f.Seek(int64(size)+int64(size%2), io.SeekCurrent); err != nil {
				return 0, fmt.Errorf("skip %q chunk: %w", id, err)
			}
		}
	}
}
