// Package audiofile validates companion audio resources and probes their
// duration. The engine never decodes audio; it only needs to know that a
// resource is acceptable and how long it runs so seeks can be clamped.
package audiofile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultMaxSizeMB caps companion audio at 500 MB.
const DefaultMaxSizeMB = 500

// ErrProbeTimeout is returned when audio metadata does not arrive within
// the configured wait. The failure is scoped to the audio operation; the
// transcript store is untouched.
var ErrProbeTimeout = errors.New("timed out waiting for audio metadata")

// UnsupportedFormatError means the resource is not a playable audio format.
// Non-fatal: surfaced as a toast, the view state is unchanged.
type UnsupportedFormatError struct {
	Name string
	MIME string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported audio format: %s", e.Name)
}

// OversizedResourceError means the resource exceeds the configured size
// cap. Non-fatal, same handling as UnsupportedFormatError.
type OversizedResourceError struct {
	SizeMB float64
	MaxMB  int
}

func (e *OversizedResourceError) Error() string {
	return fmt.Sprintf("audio file too large (max %d MB), current: %.1f MB", e.MaxMB, e.SizeMB)
}

var validMIMETypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/wav":   true,
	"audio/wave":  true,
	"audio/x-wav": true,
	"audio/mp4":   true,
	"audio/m4a":   true,
	"audio/aac":   true,
	"audio/ogg":   true,
	"audio/webm":  true,
}

var validExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".webm": true,
}

// ValidFormat reports whether the name or MIME type identifies a supported
// audio format. Either signal is sufficient.
func ValidFormat(name, mimeType string) bool {
	if validMIMETypes[mimeType] {
		return true
	}
	return validExtensions[strings.ToLower(filepath.Ext(name))]
}

// Check validates a companion audio resource against format and size
// limits. maxSizeMB <= 0 selects DefaultMaxSizeMB.
func Check(name, mimeType string, size int64, maxSizeMB int) error {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}

	if !ValidFormat(name, mimeType) {
		return &UnsupportedFormatError{Name: name, MIME: mimeType}
	}
	if size > int64(maxSizeMB)*1024*1024 {
		return &OversizedResourceError{
			SizeMB: float64(size) / (1024 * 1024),
			MaxMB:  maxSizeMB,
		}
	}
	return nil
}

// ContentType maps an audio file name to its HTTP content type.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".aac":
		return "audio/aac"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}
