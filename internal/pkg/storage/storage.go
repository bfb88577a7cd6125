// Package storage abstracts where plan files, receipts, and branding
// assets live. Local disk is the default; an S3-compatible bucket can be
// enabled via environment for production.
package storage

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/internal/pkg/env"
)

// Storage is the file backend used across the application. Names are
// forward-slash relative paths within the storage root ("plans/free/x.pdf").
type Storage interface {
	Save(name string, r io.Reader) error
	Open(name string) (io.ReadCloser, error)
	Delete(name string) error
	Exists(name string) (bool, error)
	ModifiedTime(name string) (time.Time, error)
	Size(name string) (int64, error)
}

// NewFromEnv builds the configured backend. Falls back to local disk when
// S3 is disabled or misconfigured so the site keeps serving files.
func NewFromEnv() Storage {
	if env.GetEnv("S3_STORAGE_ENABLED", "false") == "true" {
		s3Store, err := NewS3FromEnv()
		if err != nil {
			log.Errorf("[Storage] S3 init failed, falling back to local disk: %v", err)
		} else {
			log.Info("[Storage] Using S3 backend")
			return s3Store
		}
	}
	root := env.GetEnv("STORAGE_ROOT", "./uploads")
	log.Infof("[Storage] Using local disk backend at %s", root)
	return NewLocal(root)
}
