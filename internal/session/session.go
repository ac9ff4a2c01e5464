// Package session holds the state of one QR editing session: the selected
// kind, the form values, the style and logo, and the last good payload.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/thereceipt/qr-engine/internal/export"
	"github.com/thereceipt/qr-engine/internal/renderer"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
	"go.uber.org/zap"
)

// ErrNothingToExport is returned by Export and Copy before any payload was
// built successfully
var ErrNothingToExport = errors.New("Nothing to export yet.")

// Saver stores an exported image
type Saver interface {
	Save(ctx context.Context, img image.Image, format export.Format) (*export.Saved, error)
}

// Copier places an image on the clipboard
type Copier interface {
	Copy(ctx context.Context, img image.Image) error
}

// Options configures a session. Zero values fall back to defaults.
type Options struct {
	Composer    renderer.Composer
	Files       Saver
	Clipboard   Copier
	PreviewSize int
	Resolution  int
	Debounce    time.Duration
	Kind        qrformat.Kind
	Style       qrformat.Style
	Logger      *zap.Logger
}

// Preview is a composed preview for a payload
type Preview struct {
	Payload string
	Image   image.Image
}

// Result is what a scheduled preview delivers
type Result struct {
	Preview *Preview
	Err     error
}

// Session is safe for concurrent use
type Session struct {
	id        string
	log       *zap.Logger
	composer  renderer.Composer
	files     Saver
	clipboard Copier
	debounce  *Debouncer

	previewSize int
	resolution  int
	baseStyle   qrformat.Style

	mu          sync.Mutex
	kind        qrformat.Kind
	values      map[string]string
	style       qrformat.Style
	logo        *renderer.Logo
	lastPayload string
	preview     image.Image
	// gen advances whenever anything a composed image depends on changes
	gen uint64
}

// New creates a session
func New(opts Options) *Session {
	if opts.Composer == nil {
		opts.Composer = renderer.New(nil)
	}
	if opts.Files == nil {
		opts.Files = export.NewFileSink(".")
	}
	if opts.Clipboard == nil {
		opts.Clipboard = export.NewClipboardSink()
	}
	if opts.PreviewSize == 0 {
		opts.PreviewSize = 380
	}
	if opts.Resolution == 0 {
		opts.Resolution = 1024
	}
	if !opts.Kind.Valid() {
		opts.Kind = qrformat.KindURL
	}
	if opts.Style == (qrformat.Style{}) {
		opts.Style = qrformat.DefaultStyle()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	id := uuid.New().String()
	return &Session{
		id:          id,
		log:         opts.Logger.With(zap.String("session", id[:8])),
		composer:    opts.Composer,
		files:       opts.Files,
		clipboard:   opts.Clipboard,
		debounce:    NewDebouncer(opts.Debounce),
		previewSize: opts.PreviewSize,
		resolution:  opts.Resolution,
		baseStyle:   opts.Style,
		kind:        opts.Kind,
		values:      make(map[string]string),
		style:       opts.Style,
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Kind returns the selected payload kind
func (s *Session) Kind() qrformat.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// SetKind switches the payload kind. The form of the previous kind is
// discarded along with its payload.
func (s *Session) SetKind(k qrformat.Kind) error {
	if !k.Valid() {
		return qrformat.ErrUnsupportedKind
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kind == k {
		return nil
	}
	s.kind = k
	s.values = make(map[string]string)
	s.clearPayloadLocked()
	s.log.Debug("🔀 Switched kind", zap.String("kind", string(k)))
	return nil
}

// Set stores a form value for the current kind
func (s *Session) Set(id, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := qrformat.Field(s.kind, id); !ok {
		return fmt.Errorf("unknown field '%s' for %s", id, s.kind)
	}
	s.values[id] = value
	return nil
}

// Value returns the raw form value for id
func (s *Session) Value(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[id]
}

// Values returns a copy of the form values
func (s *Session) Values() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Build encodes the current form. A validation failure clears the last
// payload so nothing stale can be exported.
func (s *Session) Build() (string, error) {
	s.mu.Lock()
	kind := s.kind
	vals := make(map[string]string, len(s.values))
	for k, v := range s.values {
		vals[k] = v
	}
	s.mu.Unlock()

	payload, err := qrformat.Encode(kind, qrformat.MapGetter(vals))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kind != kind {
		// The kind changed while encoding; this result is already stale
		return payload, err
	}
	if err != nil {
		s.clearPayloadLocked()
		return "", err
	}
	if payload != s.lastPayload {
		s.invalidateLocked()
	}
	s.lastPayload = payload
	return payload, nil
}

// Payload returns the last successfully built payload
func (s *Session) Payload() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPayload, s.lastPayload != ""
}

// Style returns the current style
func (s *Session) Style() qrformat.Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

// SetStyle replaces the style after validating it
func (s *Session) SetStyle(style qrformat.Style) error {
	if err := style.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = style
	s.invalidateLocked()
	return nil
}

// SetLogo replaces the logo; nil removes it
func (s *Session) SetLogo(logo *renderer.Logo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logo = logo
	s.invalidateLocked()
}

// LoadLogoFile reads, checks and installs a logo from disk
func (s *Session) LoadLogoFile(path string) error {
	logo, err := renderer.LoadLogoFile(path)
	if err != nil {
		return err
	}
	s.SetLogo(logo)
	s.log.Info("🖼️  Logo loaded",
		zap.String("path", path),
		zap.String("type", logo.MediaType),
		zap.String("size", humanize.Bytes(uint64(logo.Bytes))))
	return nil
}

// RemoveLogo drops the logo
func (s *Session) RemoveLogo() {
	s.SetLogo(nil)
	s.log.Info("🗑️  Logo removed")
}

// HasLogo reports whether a logo is installed
func (s *Session) HasLogo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logo != nil
}

// Preview builds the payload and composes it at the preview size
func (s *Session) Preview(ctx context.Context) (*Preview, error) {
	payload, err := s.Build()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	req := renderer.Request{Payload: payload, Size: s.previewSize, Style: s.style, Logo: s.logo}
	gen := s.gen
	s.mu.Unlock()

	img, err := s.composer.Compose(ctx, req)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		s.mu.Lock()
		if s.gen == gen {
			s.clearPayloadLocked()
		}
		s.mu.Unlock()
		s.log.Warn("⚠️  Preview failed", zap.Error(err))
		return nil, err
	}

	// Only cache an image whose payload, style and logo are still current
	s.mu.Lock()
	if s.gen == gen {
		s.preview = img
	}
	s.mu.Unlock()

	return &Preview{Payload: payload, Image: img}, nil
}

// SchedulePreview composes a preview after the debounce delay and hands the
// result to deliver. Scheduling again before the delay elapses replaces the
// pending preview; a replaced preview is never delivered.
func (s *Session) SchedulePreview(ctx context.Context, deliver func(Result)) {
	s.debounce.Trigger(ctx, func(ctx context.Context) {
		p, err := s.Preview(ctx)
		if ctx.Err() != nil {
			return
		}
		deliver(Result{Preview: p, Err: err})
	})
}

// Export composes the last payload at the export resolution and saves it
func (s *Session) Export(ctx context.Context, format export.Format) (*export.Saved, error) {
	s.mu.Lock()
	payload := s.lastPayload
	req := renderer.Request{Payload: payload, Size: s.resolution, Style: s.style, Logo: s.logo}
	s.mu.Unlock()

	if payload == "" {
		return nil, ErrNothingToExport
	}

	img, err := s.composer.Compose(ctx, req)
	if err != nil {
		return nil, err
	}

	saved, err := s.files.Save(ctx, img, format)
	if err != nil {
		s.log.Error("❌ Export failed", zap.Error(err))
		return nil, err
	}

	s.log.Info(fmt.Sprintf("✅ Exported %s (%s)", saved.Path, humanize.Bytes(uint64(saved.Bytes))),
		zap.Int("resolution", s.resolution))
	return saved, nil
}

// Copy places the preview raster on the clipboard
func (s *Session) Copy(ctx context.Context) error {
	s.mu.Lock()
	payload := s.lastPayload
	img := s.preview
	req := renderer.Request{Payload: payload, Size: s.previewSize, Style: s.style, Logo: s.logo}
	s.mu.Unlock()

	if payload == "" {
		return ErrNothingToExport
	}

	if img == nil {
		var err error
		img, err = s.composer.Compose(ctx, req)
		if err != nil {
			return err
		}
	}

	if err := s.clipboard.Copy(ctx, img); err != nil {
		s.log.Warn("⚠️  Copy failed", zap.Error(err))
		return err
	}
	s.log.Info("📋 Copied preview to clipboard")
	return nil
}

// Reset clears the form, the logo and the payload and restores the
// configured style
func (s *Session) Reset() {
	s.debounce.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	s.logo = nil
	s.style = s.baseStyle
	s.clearPayloadLocked()
	s.log.Info("🔄 Session reset")
}

// Close cancels any pending preview
func (s *Session) Close() {
	s.debounce.Stop()
}

func (s *Session) clearPayloadLocked() {
	s.lastPayload = ""
	s.invalidateLocked()
}

func (s *Session) invalidateLocked() {
	s.preview = nil
	s.gen++
}
