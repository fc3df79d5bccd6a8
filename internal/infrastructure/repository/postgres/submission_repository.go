package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *SubmissionRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS submissions (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	category TEXT NOT NULL,
	description TEXT NOT NULL,
	attribution TEXT NOT NULL,
	status TEXT NOT NULL,
	authenticity_score INT,
	uploaded_at TIMESTAMPTZ NOT NULL,
	verified_at TIMESTAMPTZ,
	pack_id TEXT,
	file_name TEXT NOT NULL,
	file_size BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
CREATE INDEX IF NOT EXISTS idx_submissions_uploaded_at ON submissions(uploaded_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO submissions (
	id, title, category, description, attribution, status, authenticity_score, uploaded_at, verified_at, pack_id, file_name, file_size
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		sub.ID, sub.Title, sub.Category, sub.Description, sub.Attribution, string(sub.Status),
		sub.AuthenticityScore, sub.UploadedAt, sub.VerifiedAt, sub.PackID, sub.FileName, sub.FileSize,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

const submissionColumns = `id, title, category, description, attribution, status, authenticity_score, uploaded_at, verified_at, pack_id, file_name, file_size`

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+submissionColumns+`
FROM submissions
WHERE id = $1
`, id)

	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	return sub, nil
}

func (r *SubmissionRepository) List(ctx context.Context) ([]domain.Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+submissionColumns+`
FROM submissions
ORDER BY uploaded_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

// Resolve applies the terminal state as a single guarded UPDATE, so the
// status, score, verified_at and pack_id become visible together and a
// submission is never re-scored.
func (r *SubmissionRepository) Resolve(ctx context.Context, id string, res domain.Resolution) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE submissions
SET status = $2, authenticity_score = $3, verified_at = $4, pack_id = $5
WHERE id = $1 AND status = $6
`, id, string(res.Status), res.AuthenticityScore, res.VerifiedAt, res.PackID, string(domain.StatusProcessing))
	if err != nil {
		return fmt.Errorf("resolve submission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve submission rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM submissions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check submission existence: %w", err)
	}
	if !exists {
		return domain.ErrSubmissionNotFound
	}
	return domain.ErrAlreadyResolved
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var (
		sub    domain.Submission
		status string
		score  sql.NullInt64
		packID sql.NullString
		verAt  sql.NullTime
	)

	err := row.Scan(
		&sub.ID, &sub.Title, &sub.Category, &sub.Description, &sub.Attribution,
		&status, &score, &sub.UploadedAt, &verAt, &packID, &sub.FileName, &sub.FileSize,
	)
	if err != nil {
		return nil, err
	}

	sub.Status = domain.SubmissionStatus(status)
	if score.Valid {
		v := int(score.Int64)
		sub.AuthenticityScore = &v
	}
	if verAt.Valid {
		v := verAt.Time
		sub.VerifiedAt = &v
	}
	if packID.Valid {
		v := packID.String
		sub.PackID = &v
	}
	return &sub, nil
}
