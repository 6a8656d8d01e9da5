package format

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is matched by every lookup failure.
var ErrUnsupportedFormat = errors.New("unsupported format")

// UnsupportedFormatError reports a format key missing from the catalog.
type UnsupportedFormatError struct {
	Key string
}

func (e *UnsupportedFormatError) Error() string {
	return "Unsupported format: " + e.Key
}

// Is lets errors.Is match ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// EngineOptions is the engine invocation for one format.
type EngineOptions struct {
	// Format is the yt-dlp format selector (e.g. "best", "bestaudio/best")
	Format string
	// ExtractAudio enables the audio extraction post-processor
	ExtractAudio bool
	// AudioCodec is the preferred codec of the extraction post-processor
	AudioCodec string
	// AudioQuality is the extraction quality ("0" keeps the original bitrate)
	AudioQuality string
}

// Spec describes how to invoke the engine for one named output format.
type Spec struct {
	Key         string
	DisplayName string
	Engine      EngineOptions
	// OutputCodec is set only for audio extraction formats and overrides
	// the extension of the file reported by the engine.
	OutputCodec string
}

// HasOutputCodec reports whether the final extension must be corrected.
func (s Spec) HasOutputCodec() bool {
	return s.OutputCodec != ""
}

// Extension returns the extension (with leading dot) forced by OutputCodec,
// or an empty string for container formats.
func (s Spec) Extension() string {
	if !s.HasOutputCodec() {
		return ""
	}
	return "." + s.OutputCodec
}

// Catalog is an immutable key → Spec mapping built once at startup.
type Catalog struct {
	specs map[string]Spec
	keys  []string
}

// NewCatalog builds a catalog preserving the order of specs.
func NewCatalog(specs ...Spec) (*Catalog, error) {
	c := &Catalog{
		specs: make(map[string]Spec, len(specs)),
		keys:  make([]string, 0, len(specs)),
	}
	for _, s := range specs {
		key := strings.TrimSpace(s.Key)
		if key == "" {
			return nil, fmt.Errorf("format spec %q has empty key", s.DisplayName)
		}
		if _, dup := c.specs[key]; dup {
			return nil, fmt.Errorf("duplicate format key: %s", key)
		}
		if s.OutputCodec != "" && !s.Engine.ExtractAudio {
			return nil, fmt.Errorf("format %s: output codec requires audio extraction", key)
		}
		s.Key = key
		c.specs[key] = s
		c.keys = append(c.keys, key)
	}
	return c, nil
}

// Lookup returns the spec for key or an *UnsupportedFormatError.
func (c *Catalog) Lookup(key string) (Spec, error) {
	s, ok := c.specs[key]
	if !ok {
		return Spec{}, &UnsupportedFormatError{Key: key}
	}
	return s, nil
}

// Keys returns format keys in catalog order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// DisplayNames returns display names in catalog order.
func (c *Catalog) DisplayNames() []string {
	out := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.specs[k].DisplayName)
	}
	return out
}

// KeyForDisplayName maps a display name back to its key. Display names
// start with their key, so the first word is tried as a fallback.
func (c *Catalog) KeyForDisplayName(name string) (string, bool) {
	for _, k := range c.keys {
		if c.specs[k].DisplayName == name {
			return k, true
		}
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", false
	}
	if _, ok := c.specs[fields[0]]; ok {
		return fields[0], true
	}
	return "", false
}
