package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lenormand-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const readingColumns = `id, user_id, date, title, cards, interpretation, spread_type, layout_type, question, reflection, created_at`

// ReadingRepo implements ports.ReadingRepository. Cards are stored as a
// jsonb document; every query filters by user_id so a reading is only ever
// visible to its owner.
type ReadingRepo struct {
	pool Pool
}

// NewReadingRepo creates a new ReadingRepo.
func NewReadingRepo(pool Pool) *ReadingRepo {
	return &ReadingRepo{pool: pool}
}

// Create inserts a new reading into the database.
func (r *ReadingRepo) Create(ctx context.Context, reading *domain.Reading) error {
	cards, err := json.Marshal(reading.Cards)
	if err != nil {
		return fmt.Errorf("marshal cards: %w", err)
	}

	query := `INSERT INTO readings (` + readingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.pool.Exec(ctx, query,
		reading.ID, reading.UserID, reading.Date, reading.Title, cards,
		reading.Interpretation, reading.SpreadType, reading.LayoutType,
		reading.Question, reading.Reflection, reading.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// GetByID fetches one reading owned by the user.
func (r *ReadingRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE id = $1 AND user_id = $2`

	reading, err := scanReading(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reading by id: %w", err)
	}
	return reading, nil
}

// ListByUser returns all of the user's readings, newest first.
func (r *ReadingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	var readings []domain.Reading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		readings = append(readings, *reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return readings, nil
}

// UpdateReflection replaces the reflection of an owned reading and returns
// the updated row, or nil when the reading does not exist for this user.
func (r *ReadingRepo) UpdateReflection(ctx context.Context, userID, id uuid.UUID, reflection string) (*domain.Reading, error) {
	query := `UPDATE readings SET reflection = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + readingColumns

	reading, err := scanReading(r.pool.QueryRow(ctx, query, reflection, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update reflection: %w", err)
	}
	return reading, nil
}

// Delete removes an owned reading. Returns false when nothing matched.
func (r *ReadingRepo) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	query := `DELETE FROM readings WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete reading: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanReading(row pgx.Row) (*domain.Reading, error) {
	reading := &domain.Reading{}
	var cards []byte
	err := row.Scan(
		&reading.ID, &reading.UserID, &reading.Date, &reading.Title, &cards,
		&reading.Interpretation, &reading.SpreadType, &reading.LayoutType,
		&reading.Question, &reading.Reflection, &reading.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cards, &reading.Cards); err != nil {
		return nil, fmt.Errorf("unmarshal cards: %w", err)
	}
	return reading, nil
}
