package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/facebookgo/atomicfile"
)

// Saved describes a written export
type Saved struct {
	Path   string
	Format Format
	Bytes  int
}

// FileSink saves exports into a directory
type FileSink struct {
	Dir string
	Now func() time.Time
}

// NewFileSink creates a sink writing into dir
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir, Now: time.Now}
}

// Save encodes img and writes it atomically under a timestamped name
func (s *FileSink) Save(ctx context.Context, img image.Image, format Format) (*Saved, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, Filename(format, now()))
	f, err := atomicfile.New(path, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Abort()
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", path, err)
	}

	return &Saved{Path: path, Format: format, Bytes: buf.Len()}, nil
}

// MsgClipboardDenied is shown when the image cannot be copied
const MsgClipboardDenied = "Clipboard permission denied."

// ErrClipboardDenied is returned when no clipboard accepted the image
var ErrClipboardDenied = errors.New(MsgClipboardDenied)

// ClipboardSink copies images to the clipboard as PNG data URLs. Terminal
// clipboards only carry text, so the raster travels base64 encoded.
type ClipboardSink struct {
	// Write puts text on the system clipboard
	Write func(text string) error
	// Fallback receives an OSC52 sequence when the system clipboard fails;
	// nil disables the fallback.
	Fallback func(seq string) error
}

// NewClipboardSink uses the system clipboard with an OSC52 fallback on stderr
func NewClipboardSink() *ClipboardSink {
	return &ClipboardSink{
		Write: clipboard.WriteAll,
		Fallback: func(seq string) error {
			_, err := fmt.Fprint(os.Stderr, seq)
			return err
		},
	}
}

// Copy places img on the clipboard
func (c *ClipboardSink) Copy(ctx context.Context, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := DataURL(img)
	if err != nil {
		return err
	}

	if c.Write != nil {
		if err := c.Write(data); err == nil {
			return nil
		}
	}

	if c.Fallback != nil {
		seq := osc52.New(data).Tmux().Screen().String()
		if err := c.Fallback(seq); err == nil {
			return nil
		}
	}

	return ErrClipboardDenied
}
