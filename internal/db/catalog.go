package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-match/internal/types"
)

// GetAllCandidatePositions returns every stored position in insertion order.
func (db *DB) GetAllCandidatePositions(ctx context.Context) ([]types.PolicyPosition, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT candidate_id, policy_area, position, embedding, stances, extracted_at
		 FROM policy_positions
		 ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := make([]types.PolicyPosition, 0)
	for rows.Next() {
		var (
			p       types.PolicyPosition
			area    string
			stances []byte
		)
		if err := rows.Scan(&p.CandidateID, &area, &p.Position, &p.Embedding, &stances, &p.ExtractedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		p.PolicyArea = types.PolicyArea(area)
		if p.Stances, err = decodeStances(stances); err != nil {
			return nil, fmt.Errorf("position %s/%s: %w", p.CandidateID, area, err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}
	return positions, nil
}

// GetQuestionsByIDs returns the questions whose ids are in ids. Unknown ids
// are omitted.
func (db *DB) GetQuestionsByIDs(ctx context.Context, ids []string) ([]types.Question, error) {
	if len(ids) == 0 {
		return []types.Question{}, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, policy_area, text, type, options, embedding, weight, bias_score
		 FROM questions
		 WHERE id = ANY($1)
		 ORDER BY seq`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	return collectQuestions(rows)
}

// ListQuestions returns the full question catalog.
func (db *DB) ListQuestions(ctx context.Context) ([]types.Question, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, policy_area, text, type, options, embedding, weight, bias_score
		 FROM questions
		 ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	return collectQuestions(rows)
}

func collectQuestions(rows pgx.Rows) ([]types.Question, error) {
	defer rows.Close()

	questions := make([]types.Question, 0)
	for rows.Next() {
		var (
			q        types.Question
			area, qt string
		)
		if err := rows.Scan(&q.QuestionID, &area, &q.Text, &qt, &q.Options, &q.Embedding, &q.Weight, &q.BiasScore); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.PolicyArea = types.PolicyArea(area)
		q.Type = types.QuestionType(qt)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}

// GetCandidates returns the candidates whose ids are in ids. An empty ids
// returns every candidate.
func (db *DB) GetCandidates(ctx context.Context, ids []string) ([]types.Candidate, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if len(ids) == 0 {
		rows, err = db.pool.Query(ctx, `SELECT id, name, party FROM candidates ORDER BY seq`)
	} else {
		rows, err = db.pool.Query(ctx, `SELECT id, name, party FROM candidates WHERE id = ANY($1) ORDER BY seq`, ids)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]types.Candidate, 0)
	for rows.Next() {
		var c types.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Party); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

// UpsertCandidate inserts or updates a candidate by id.
func (db *DB) UpsertCandidate(ctx context.Context, c types.Candidate) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO candidates (id, name, party)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, party = EXCLUDED.party`,
		c.ID, c.Name, c.Party,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate %s: %w", c.ID, err)
	}
	return nil
}

// UpsertQuestion inserts or updates a question by id. A question without an
// embedding keeps the stored one while its text is unchanged.
func (db *DB) UpsertQuestion(ctx context.Context, q types.Question) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO questions (id, policy_area, text, type, options, embedding, weight, bias_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
			policy_area = EXCLUDED.policy_area,
			text = EXCLUDED.text,
			type = EXCLUDED.type,
			options = EXCLUDED.options,
			embedding = CASE
				WHEN EXCLUDED.embedding IS NOT NULL THEN EXCLUDED.embedding
				WHEN questions.text = EXCLUDED.text THEN questions.embedding
			END,
			weight = EXCLUDED.weight,
			bias_score = EXCLUDED.bias_score`,
		q.QuestionID, string(q.PolicyArea), q.Text, string(q.Type), q.Options, nilIfEmpty(q.Embedding), q.Weight, q.BiasScore,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert question %s: %w", q.QuestionID, err)
	}
	return nil
}

// UpsertPosition inserts or replaces the position for (candidate, area).
// A position without an embedding or stances keeps the stored ones while its
// text is unchanged.
func (db *DB) UpsertPosition(ctx context.Context, p types.PolicyPosition) error {
	stances, err := encodeStances(p.Stances)
	if err != nil {
		return err
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO policy_positions (candidate_id, policy_area, position, embedding, stances, extracted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (candidate_id, policy_area) DO UPDATE SET
			position = EXCLUDED.position,
			embedding = CASE
				WHEN EXCLUDED.embedding IS NOT NULL THEN EXCLUDED.embedding
				WHEN policy_positions.position = EXCLUDED.position THEN policy_positions.embedding
			END,
			stances = CASE
				WHEN EXCLUDED.stances IS NOT NULL THEN EXCLUDED.stances
				WHEN policy_positions.position = EXCLUDED.position THEN policy_positions.stances
			END,
			extracted_at = EXCLUDED.extracted_at`,
		p.CandidateID, string(p.PolicyArea), p.Position, nilIfEmpty(p.Embedding), stances, p.ExtractedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position %s/%s: %w", p.CandidateID, p.PolicyArea, err)
	}
	return nil
}

// UpdateQuestionEmbedding stores the embedding for a question.
func (db *DB) UpdateQuestionEmbedding(ctx context.Context, questionID string, embedding []float64) error {
	tag, err := db.pool.Exec(ctx, `UPDATE questions SET embedding = $1 WHERE id = $2`, embedding, questionID)
	if err != nil {
		return fmt.Errorf("failed to update question embedding %s: %w", questionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question not found: %s", questionID)
	}
	return nil
}

// UpdatePositionEmbedding stores the embedding for a (candidate, area) position.
func (db *DB) UpdatePositionEmbedding(ctx context.Context, candidateID string, area types.PolicyArea, embedding []float64) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE policy_positions SET embedding = $1 WHERE candidate_id = $2 AND policy_area = $3`,
		embedding, candidateID, string(area),
	)
	if err != nil {
		return fmt.Errorf("failed to update position embedding %s/%s: %w", candidateID, area, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("position not found: %s/%s", candidateID, area)
	}
	return nil
}

func encodeStances(stances map[string]string) ([]byte, error) {
	if len(stances) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(stances)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stances: %w", err)
	}
	return b, nil
}

func decodeStances(b []byte) (map[string]string, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var stances map[string]string
	if err := json.Unmarshal(b, &stances); err != nil {
		return nil, fmt.Errorf("failed to decode stances: %w", err)
	}
	return stances, nil
}

func nilIfEmpty(v []float64) []float64 {
	if len(v) == 0 {
		return nil
	}
	return v
}
