package persistence

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/shared"
)

const sequenceRetries = 10

// SequenceCounter is one row of the daily counter table, keyed by
// document prefix and calendar day.
type SequenceCounter struct {
	Prefix  string `gorm:"primaryKey;size:16"`
	Day     string `gorm:"primaryKey;size:8"`
	Counter int64  `gorm:"not null"`
}

// TableName returns the table name for SequenceCounter
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}

// GormNumberGenerator issues document numbers backed by an atomically
// incremented counter table. Contention is retried a bounded number of
// times; if the database keeps failing it falls back to a random suffix
// so document creation never stalls on numbering.
type GormNumberGenerator struct {
	db *gorm.DB
}

// NewGormNumberGenerator creates a new GormNumberGenerator
func NewGormNumberGenerator(db *gorm.DB) *GormNumberGenerator {
	return &GormNumberGenerator{db: db}
}

var _ shared.NumberGenerator = (*GormNumberGenerator)(nil)

// Next issues the next number for the prefix and day of t
func (g *GormNumberGenerator) Next(ctx context.Context, prefix string, t time.Time) (string, error) {
	day := t.Format("20060102")

	var lastErr error
	for attempt := 0; attempt < sequenceRetries; attempt++ {
		seq, err := g.nextSequence(ctx, prefix, day)
		if err == nil {
			return fmt.Sprintf("%s-%s-%04d", prefix, day, seq), nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
	}

	// Numbering must not block document creation. A random suffix keeps
	// the number unique at the cost of breaking the daily sequence.
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("sequence fallback: %w (after %w)", err, lastErr)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, day, strings.ToUpper(hex.EncodeToString(suffix))), nil
}

// nextSequence bumps the counter row in a single atomic upsert so two
// callers can never observe the same value
func (g *GormNumberGenerator) nextSequence(ctx context.Context, prefix, day string) (int64, error) {
	var seq int64
	err := g.db.WithContext(ctx).Raw(
		`INSERT INTO sequence_counters (prefix, day, counter) VALUES (?, ?, 1)
		 ON CONFLICT (prefix, day) DO UPDATE SET counter = sequence_counters.counter + 1
		 RETURNING counter`,
		prefix, day,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	if seq == 0 {
		return 0, gorm.ErrInvalidData
	}
	return seq, nil
}
