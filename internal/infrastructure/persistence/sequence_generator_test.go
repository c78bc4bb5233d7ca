package persistence

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/shared"
)

func newMockNumberGenerator(t *testing.T) (*GormNumberGenerator, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormNumberGenerator(gormDB), mock, mockDB
}

func TestGormNumberGenerator_Next(t *testing.T) {
	day := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

	t.Run("starts a fresh counter for the first number of the day", func(t *testing.T) {
		gen, mock, mockDB := newMockNumberGenerator(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequence_counters .* ON CONFLICT \(prefix, day\) DO UPDATE .* RETURNING counter`).
			WithArgs(shared.ReturnNumberPrefix, "20260829").
			WillReturnRows(sqlmock.NewRows([]string{"counter"}).AddRow(int64(1)))

		number, err := gen.Next(context.Background(), shared.ReturnNumberPrefix, day)

		require.NoError(t, err)
		assert.Equal(t, "RET-20260829-0001", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments an existing counter", func(t *testing.T) {
		gen, mock, mockDB := newMockNumberGenerator(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequence_counters .* RETURNING counter`).
			WithArgs(shared.RefundNumberPrefix, "20260829").
			WillReturnRows(sqlmock.NewRows([]string{"counter"}).AddRow(int64(42)))

		number, err := gen.Next(context.Background(), shared.RefundNumberPrefix, day)

		require.NoError(t, err)
		assert.Equal(t, "REF-20260829-0042", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to a random suffix when the counter keeps failing", func(t *testing.T) {
		gen, mock, mockDB := newMockNumberGenerator(t)
		defer mockDB.Close()

		for i := 0; i < sequenceRetries; i++ {
			mock.ExpectQuery(`INSERT INTO sequence_counters`).
				WillReturnError(sql.ErrConnDone)
		}

		number, err := gen.Next(context.Background(), shared.ReturnNumberPrefix, day)

		require.NoError(t, err)
		assert.Regexp(t, `^RET-20260829-[0-9A-F]{6}$`, number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNumberGenerator_Concurrent(t *testing.T) {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Every connection to an in-memory database is its own database;
	// pin the pool to a single connection.
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gormDB.Exec(`
		CREATE TABLE sequence_counters (
			prefix TEXT NOT NULL,
			day TEXT NOT NULL,
			counter INTEGER NOT NULL,
			PRIMARY KEY (prefix, day)
		)`).Error)

	gen := NewGormNumberGenerator(gormDB)
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	const workers = 50
	const perWorker = 20

	var (
		mu      sync.Mutex
		numbers = make(map[string]struct{}, workers*perWorker)
		wg      sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				number, err := gen.Next(context.Background(), shared.ReturnNumberPrefix, day)
				assert.NoError(t, err)
				mu.Lock()
				numbers[number] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, workers*perWorker, "concurrent callers must never share a number")
}
