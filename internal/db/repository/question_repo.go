package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// QuestionRow is a curated question as stored in Postgres. The correct
// answer is kept apart from the decoys; option order is decided per
// assignment, not in the database.
type QuestionRow struct {
	ID               uuid.UUID
	Prompt           string
	Category         string
	IncorrectOptions []string
	CorrectAnswer    string
}

// QuestionRepository exposes typed DB operations on the curated pool.
type QuestionRepository struct {
	db DB
}

// NewQuestionRepository wraps a pgx connection pool.
func NewQuestionRepository(db DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// FetchRandom samples up to limit questions from the curated pool.
func (r *QuestionRepository) FetchRandom(ctx context.Context, limit int) ([]QuestionRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT question_id, prompt, category, incorrect_options, correct_answer
		   FROM questions
		  ORDER BY random()
		  LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch question pool: %w", err)
	}
	defer rows.Close()

	var result []QuestionRow
	for rows.Next() {
		var q QuestionRow
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Category, &q.IncorrectOptions, &q.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		result = append(result, q)
	}
	return result, rows.Err()
}

// ListCategories returns the distinct category labels in the pool.
func (r *QuestionRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT category FROM questions ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
