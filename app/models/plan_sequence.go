package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ReferencePrefix          = "PH"
	ReferenceSequencePadding = 4
)

// PlanReferenceSequence tracks the incremental reference counter for each
// calendar year. Rows are only ever created and incremented, never deleted.
type PlanReferenceSequence struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Year       int       `gorm:"uniqueIndex;not null" json:"year"`
	LastNumber int       `gorm:"not null;default:0" json:"last_number"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NextSequenceForYear returns the next sequential number for a given year.
// The row is read under an exclusive lock inside a single transaction, so
// concurrent callers always observe strictly increasing, unique numbers.
// If the transaction aborts no number is consumed.
func NextSequenceForYear(db *gorm.DB, year int) (int, error) {
	var next int
	err := db.Transaction(func(tx *gorm.DB) error {
		var seq PlanReferenceSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).First(&seq).Error
		if err == gorm.ErrRecordNotFound {
			seq = PlanReferenceSequence{Year: year, LastNumber: 0}
			createErr := tx.Create(&seq).Error
			// Re-read under the lock. When two first callers race the
			// insert, the loser trips the unique index on year and
			// picks up the winner's row here instead of failing.
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("year = ?", year).First(&seq).Error; err != nil {
				if createErr != nil {
					return createErr
				}
				return err
			}
		} else if err != nil {
			return err
		}

		seq.LastNumber++
		if err := tx.Model(&PlanReferenceSequence{}).Where("id = ?", seq.ID).
			Update("last_number", seq.LastNumber).Error; err != nil {
			return err
		}
		next = seq.LastNumber
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// BuildReference formats a plan reference like PH-2026-0007.
func BuildReference(year, sequence int) string {
	return fmt.Sprintf("%s-%d-%0*d", ReferencePrefix, year, ReferenceSequencePadding, sequence)
}

// NextReferenceForYear issues the next reference string for the year.
func NextReferenceForYear(db *gorm.DB, year int) (string, error) {
	seq, err := NextSequenceForYear(db, year)
	if err != nil {
		return "", err
	}
	return BuildReference(year, seq), nil
}
