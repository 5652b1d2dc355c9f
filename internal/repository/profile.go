package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkpass/mkpass-go/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository persists named requirement profiles.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, name, length, numbers, specials, first_is_letter, allow_repeats, created_at, updated_at`

// upsertProfileQuery replaces a profile's requirements when the (user_id,
// name) pair already exists.
const upsertProfileQuery = `
	INSERT INTO profiles (user_id, name, length, numbers, specials, first_is_letter, allow_repeats)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		length          = VALUES(length),
		numbers         = VALUES(numbers),
		specials        = VALUES(specials),
		first_is_letter = VALUES(first_is_letter),
		allow_repeats   = VALUES(allow_repeats),
		updated_at      = CURRENT_TIMESTAMP`

// Upsert creates or replaces p, keyed by user and name.
func (r *ProfileRepository) Upsert(ctx context.Context, p *model.Profile) error {
	_, err := r.db.ExecContext(ctx, upsertProfileQuery,
		p.UserID, p.Name, p.Length, p.Numbers, p.Specials, p.FirstIsLetter, p.AllowRepeats,
	)
	if err != nil {
		return fmt.Errorf("upserting profile %q: %w", p.Name, err)
	}
	return nil
}

// Get retrieves a single profile by user and name.
func (r *ProfileRepository) Get(ctx context.Context, userID int64, name string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ? AND name = ?`

	p := &model.Profile{}
	if err := scanProfile(r.db.QueryRowContext(ctx, query, userID, name), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("querying profile %q: %w", name, err)
	}
	return p, nil
}

// ListByUser returns a user's profiles ordered by name.
func (r *ProfileRepository) ListByUser(ctx context.Context, userID int64) ([]model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ? ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := scanProfile(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Delete removes a profile.
func (r *ProfileRepository) Delete(ctx context.Context, userID int64, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ? AND name = ?`, userID, name)
	if err != nil {
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner, p *model.Profile) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Length, &p.Numbers, &p.Specials,
		&p.FirstIsLetter, &p.AllowRepeats, &p.CreatedAt, &p.UpdatedAt,
	)
}
