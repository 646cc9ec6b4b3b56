package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/repository"
)

var _ repository.UserProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implements UserProfileRepository using PostgreSQL.
type ProfileRepo struct {
	db      *DB
	idStart int64
}

// NewProfileRepo constructs a profile repository. idStart is the first id on an empty table.
func NewProfileRepo(db *DB, idStart int64) *ProfileRepo {
	if idStart < 1 {
		idStart = 1
	}
	return &ProfileRepo{db: db, idStart: idStart}
}

const profileColumns = `id, name, email, image_url, date_created`

func scanProfile(row scanner) (model.UserProfile, error) {
	var p model.UserProfile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.ImageURL, &p.DateCreated)
	return p, err
}

// GetAll selects every profile ordered by id.
func (r *ProfileRepo) GetAll(ctx context.Context) ([]model.UserProfile, error) {
	const q = `SELECT ` + profileColumns + ` FROM user_profile ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}
	defer rows.Close()

	out := []model.UserProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID selects a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (model.UserProfile, error) {
	const q = `SELECT ` + profileColumns + ` FROM user_profile WHERE id=$1`
	p, err := scanProfile(r.db.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserProfile{}, errs.ErrNotFound
		}
		return model.UserProfile{}, fmt.Errorf("select profile %d: %w", id, err)
	}
	return p, nil
}

// Add inserts p with id max(id)+1 (idStart on an empty table).
// The table lock serialises concurrent inserts so the computed id stays unique.
func (r *ProfileRepo) Add(ctx context.Context, p *model.UserProfile) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const lock = `LOCK TABLE user_profile IN EXCLUSIVE MODE`
	const ins = `
INSERT INTO user_profile (id, name, email, image_url, date_created)
SELECT COALESCE(MAX(id), $1::bigint - 1) + 1, $2::text, $3::text, $4::text, $5::timestamptz
FROM user_profile
RETURNING id`

	if _, err = tx.Exec(ctx, lock); err != nil {
		return fmt.Errorf("lock user_profile: %w", err)
	}
	var id int64
	if err = tx.QueryRow(ctx, ins, r.idStart, p.Name, p.Email, p.ImageURL, p.DateCreated).Scan(&id); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	p.ID = id
	return nil
}

// Update overwrites the row with p.ID; zero affected rows is not an error.
func (r *ProfileRepo) Update(ctx context.Context, p model.UserProfile) error {
	const q = `
UPDATE user_profile
SET name=$2, email=$3, image_url=$4, date_created=$5
WHERE id=$1`
	if _, err := r.db.Pool.Exec(ctx, q, p.ID, p.Name, p.Email, p.ImageURL, p.DateCreated); err != nil {
		return fmt.Errorf("update profile %d: %w", p.ID, err)
	}
	return nil
}

// Delete removes the row with id; its videos and comments cascade.
func (r *ProfileRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM user_profile WHERE id=$1`
	if _, err := r.db.Pool.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("delete profile %d: %w", id, err)
	}
	return nil
}

// GetUserVideos selects the videos owned by id, newest first.
func (r *ProfileRepo) GetUserVideos(ctx context.Context, id int64) ([]model.Video, error) {
	const exists = `SELECT EXISTS (SELECT 1 FROM user_profile WHERE id=$1)`
	var ok bool
	if err := r.db.Pool.QueryRow(ctx, exists, id).Scan(&ok); err != nil {
		return nil, fmt.Errorf("check profile %d: %w", id, err)
	}
	if !ok {
		return nil, errs.ErrNotFound
	}
	const q = videoSelect + ` WHERE v.user_profile_id=$1 ORDER BY v.date_created DESC, v.id`
	return queryVideos(ctx, r.db.Pool, q, id)
}
