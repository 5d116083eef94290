package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores providers in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("providers: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const providerColumns = `
	id, user_id, name, specialty, experience, rating, reviews, address,
	phone_number, email, latitude, longitude, license_number, consultation_fee,
	is_available, is_verified, clinic_name, qualifications, bio, profile_image,
	operating_hours, created_at, updated_at`

func scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	if err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Specialty, &p.Experience, &p.Rating,
		&p.Reviews, &p.Address, &p.PhoneNumber, &p.Email, &p.Latitude,
		&p.Longitude, &p.LicenseNumber, &p.ConsultationFee, &p.IsAvailable,
		&p.IsVerified, &p.ClinicName, &p.Qualifications, &p.Bio,
		&p.ProfileImage, &p.OperatingHours, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindVerified returns verified providers, optionally filtered by a
// case-insensitive specialty substring match.
func (r *PostgresRepository) FindVerified(ctx context.Context, specialty string) ([]Provider, error) {
	query := `
		SELECT ` + providerColumns + `
		FROM providers
		WHERE is_verified = TRUE
		  AND ($1 = '' OR specialty ILIKE '%' || $1 || '%')
		ORDER BY rating DESC, experience DESC`
	rows, err := r.pool.Query(ctx, query, specialty)
	if err != nil {
		return nil, fmt.Errorf("providers: select verified: %w", err)
	}
	defer rows.Close()

	out := []Provider{}
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("providers: scan row: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetByID fetches a provider by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE id = $1`
	p, err := scanProvider(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("providers: select by id: %w", err)
	}
	return p, nil
}

// GetByUserID fetches the provider profile attached to a platform user.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE user_id = $1`
	p, err := scanProvider(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("providers: select by user: %w", err)
	}
	return p, nil
}

// UpdateProfile applies the editable fields and returns the stored row.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID string, update *ProfileUpdate) (*Provider, error) {
	current, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	update.apply(current)
	current.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE providers SET
			name = $2, specialty = $3, experience = $4, address = $5,
			phone_number = $6, email = $7, latitude = $8, longitude = $9,
			license_number = $10, consultation_fee = $11, is_available = $12,
			clinic_name = $13, qualifications = $14, bio = $15,
			profile_image = $16, operating_hours = $17, updated_at = $18
		WHERE user_id = $1`
	if _, err := r.pool.Exec(ctx, query,
		userID, current.Name, current.Specialty, current.Experience,
		current.Address, current.PhoneNumber, current.Email, current.Latitude,
		current.Longitude, current.LicenseNumber, current.ConsultationFee,
		current.IsAvailable, current.ClinicName, current.Qualifications,
		current.Bio, current.ProfileImage, current.OperatingHours,
		current.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("providers: update profile: %w", err)
	}
	return current, nil
}
