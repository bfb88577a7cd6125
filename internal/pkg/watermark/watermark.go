// Package watermark maintains the stamped copies of free preview files.
// The stamped copy is derived lazily on first download and regenerated
// whenever the source file is newer than the existing copy.
package watermark

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/internal/pkg/storage"
)

// Stamper draws the brand mark onto a document. Implementations are
// format specific; the text is the brand line printed across each page.
type Stamper interface {
	Stamp(src io.Reader, dst io.Writer, text string) error
}

// Service resolves watermarked derivatives on demand.
type Service struct {
	store   storage.Storage
	stamper Stamper
	text    string
}

// NewService builds the watermark service. A nil stamper disables
// stamping entirely; originals are served as-is.
func NewService(store storage.Storage, stamper Stamper, text string) *Service {
	return &Service{store: store, stamper: stamper, text: text}
}

// Resolve returns the storage name to serve for the given source file.
// It returns the stamped derivative if it exists and is fresh, generates
// it when missing or stale, and falls back to the original when the
// stamper is unavailable or fails. A download must never break because
// watermarking did.
func (s *Service) Resolve(sourceName, derivedName string) string {
	if s.stamper == nil || derivedName == "" {
		return sourceName
	}

	fresh, err := s.isFresh(sourceName, derivedName)
	if err != nil {
		log.Warnf("[Watermark] freshness check failed for %s: %v", derivedName, err)
		return sourceName
	}
	if fresh {
		return derivedName
	}

	if err := s.generate(sourceName, derivedName); err != nil {
		log.Errorf("[Watermark] stamping %s failed, serving original: %v", sourceName, err)
		return sourceName
	}
	return derivedName
}

// isFresh reports whether the derivative exists and is at least as new
// as the source.
func (s *Service) isFresh(sourceName, derivedName string) (bool, error) {
	exists, err := s.store.Exists(derivedName)
	if err != nil || !exists {
		return false, err
	}
	srcTime, err := s.store.ModifiedTime(sourceName)
	if err != nil {
		return false, err
	}
	derivedTime, err := s.store.ModifiedTime(derivedName)
	if err != nil {
		return false, err
	}
	return !derivedTime.Before(srcTime), nil
}

func (s *Service) generate(sourceName, derivedName string) error {
	src, err := s.store.Open(sourceName)
	if err != nil {
		return fmt.Errorf("failed to open source %s: %w", sourceName, err)
	}
	defer src.Close()

	var stamped bytes.Buffer
	if err := s.stamper.Stamp(src, &stamped, s.text); err != nil {
		return fmt.Errorf("stamper failed on %s: %w", sourceName, err)
	}
	if err := s.store.Save(derivedName, &stamped); err != nil {
		return fmt.Errorf("failed to save %s: %w", derivedName, err)
	}
	log.Infof("[Watermark] generated %s", derivedName)
	return nil
}
