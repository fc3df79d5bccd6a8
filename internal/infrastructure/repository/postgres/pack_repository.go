package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

type PackRepository struct {
	db *sql.DB
}

func NewPackRepository(db *sql.DB) *PackRepository {
	return &PackRepository{db: db}
}

func (r *PackRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083102)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS learning_packs (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	category TEXT NOT NULL,
	description TEXT NOT NULL,
	authenticity_score INT NOT NULL,
	difficulty TEXT NOT NULL,
	duration TEXT NOT NULL,
	learners_count INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	uploader_attribution TEXT NOT NULL,
	learning_objectives JSONB NOT NULL DEFAULT '[]'::jsonb,
	learning_steps JSONB NOT NULL DEFAULT '[]'::jsonb,
	quiz_questions JSONB NOT NULL DEFAULT '[]'::jsonb,
	refs JSONB NOT NULL DEFAULT '[]'::jsonb,
	medical_disclaimer BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_learning_packs_created_at ON learning_packs(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *PackRepository) Create(ctx context.Context, pack *domain.LearningPack) error {
	objectives, steps, quiz, refs, err := marshalPackContent(pack)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO learning_packs (
	id, title, category, description, authenticity_score, difficulty, duration, learners_count,
	created_at, uploader_attribution, learning_objectives, learning_steps, quiz_questions, refs, medical_disclaimer
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
`,
		pack.ID, pack.Title, pack.Category, pack.Description, pack.AuthenticityScore,
		pack.Difficulty, pack.Duration, pack.LearnersCount, pack.CreatedAt, pack.UploaderAttribution,
		objectives, steps, quiz, refs, pack.MedicalDisclaimer,
	)
	if err != nil {
		return fmt.Errorf("insert learning pack: %w", err)
	}
	return nil
}

const packColumns = `id, title, category, description, authenticity_score, difficulty, duration, learners_count, created_at, uploader_attribution, learning_objectives, learning_steps, quiz_questions, refs, medical_disclaimer`

func (r *PackRepository) GetByID(ctx context.Context, id string) (*domain.LearningPack, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+packColumns+`
FROM learning_packs
WHERE id = $1
`, id)

	pack, err := scanPack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPackNotFound
		}
		return nil, fmt.Errorf("scan learning pack: %w", err)
	}
	return pack, nil
}

func (r *PackRepository) List(ctx context.Context) ([]domain.LearningPack, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+packColumns+`
FROM learning_packs
ORDER BY created_at
`)
	if err != nil {
		return nil, fmt.Errorf("list learning packs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.LearningPack, 0)
	for rows.Next() {
		pack, err := scanPack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan learning pack: %w", err)
		}
		out = append(out, *pack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate learning packs: %w", err)
	}
	return out, nil
}

func marshalPackContent(pack *domain.LearningPack) (objectives, steps, quiz, refs []byte, err error) {
	if objectives, err = json.Marshal(pack.LearningObjectives); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal objectives: %w", err)
	}
	if steps, err = json.Marshal(pack.LearningSteps); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal steps: %w", err)
	}
	if quiz, err = json.Marshal(pack.QuizQuestions); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal quiz: %w", err)
	}
	if refs, err = json.Marshal(pack.References); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal references: %w", err)
	}
	return objectives, steps, quiz, refs, nil
}

func scanPack(row rowScanner) (*domain.LearningPack, error) {
	var (
		pack       domain.LearningPack
		objectives []byte
		steps      []byte
		quiz       []byte
		refs       []byte
	)

	err := row.Scan(
		&pack.ID, &pack.Title, &pack.Category, &pack.Description, &pack.AuthenticityScore,
		&pack.Difficulty, &pack.Duration, &pack.LearnersCount, &pack.CreatedAt, &pack.UploaderAttribution,
		&objectives, &steps, &quiz, &refs, &pack.MedicalDisclaimer,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(objectives, &pack.LearningObjectives); err != nil {
		return nil, fmt.Errorf("unmarshal objectives: %w", err)
	}
	if err := json.Unmarshal(steps, &pack.LearningSteps); err != nil {
		return nil, fmt.Errorf("unmarshal steps: %w", err)
	}
	if err := json.Unmarshal(quiz, &pack.QuizQuestions); err != nil {
		return nil, fmt.Errorf("unmarshal quiz: %w", err)
	}
	if err := json.Unmarshal(refs, &pack.References); err != nil {
		return nil, fmt.Errorf("unmarshal references: %w", err)
	}
	return &pack, nil
}
