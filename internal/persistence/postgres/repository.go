// Package postgres provides a pgx-backed activity registry for deployments
// that need the roster to survive restarts.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/domain"
)

// Repository implements domain.Registry on top of Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all activities with rosters ordered by signup time.
func (r *Repository) List(ctx context.Context) ([]domain.Activity, error) {
	const query = `SELECT a.name, a.description, a.schedule, a.max_participants, p.email
        FROM activities a
        LEFT JOIN participants p ON p.activity_name = a.name
        ORDER BY a.name, p.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		var name, description, schedule string
		var maxParticipants int
		var email *string
		if err := rows.Scan(&name, &description, &schedule, &maxParticipants, &email); err != nil {
			return nil, err
		}

		if len(out) == 0 || out[len(out)-1].Name != name {
			out = append(out, domain.Activity{
				Name:            name,
				Description:     description,
				Schedule:        schedule,
				MaxParticipants: maxParticipants,
			})
		}
		if email != nil {
			last := &out[len(out)-1]
			last.Participants = append(last.Participants, *email)
		}
	}
	return out, rows.Err()
}

// Get returns the named activity, or nil when absent.
func (r *Repository) Get(ctx context.Context, name string) (*domain.Activity, error) {
	const query = `SELECT name, description, schedule, max_participants
        FROM activities WHERE name=$1`

	var activity domain.Activity
	row := r.pool.QueryRow(ctx, query, name)
	if err := row.Scan(&activity.Name, &activity.Description, &activity.Schedule, &activity.MaxParticipants); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT email FROM participants WHERE activity_name=$1 ORDER BY id`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		activity.Participants = append(activity.Participants, email)
	}
	return &activity, rows.Err()
}

// AddParticipant appends the email inside a single transaction so the
// presence check and the insert cannot interleave with another writer.
func (r *Repository) AddParticipant(ctx context.Context, name, email string) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = lockActivity(ctx, tx, name); err != nil {
		return err
	}

	var exists bool
	if err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM participants WHERE activity_name=$1 AND email=$2)`,
		name, email).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadySignedUp
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO participants (activity_name, email) VALUES ($1,$2)`,
		name, email); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RemoveParticipant deletes the email inside a single transaction.
func (r *Repository) RemoveParticipant(ctx context.Context, name, email string) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = lockActivity(ctx, tx, name); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM participants WHERE activity_name=$1 AND email=$2`,
		name, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotSignedUp
	}

	return tx.Commit(ctx)
}

// lockActivity row-locks the activity for the duration of the transaction,
// returning ErrActivityNotFound for unknown names.
func lockActivity(ctx context.Context, tx pgx.Tx, name string) error {
	var found string
	err := tx.QueryRow(ctx, `SELECT name FROM activities WHERE name=$1 FOR UPDATE`, name).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrActivityNotFound
	}
	return err
}
