package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/candidate-match/internal/types"
)

// GetAllCandidatePositions returns every stored position in insertion order.
func (s *Store) GetAllCandidatePositions(ctx context.Context) ([]types.PolicyPosition, error) {
	rows, err := s.db.QueryContext(ctx,
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
			p                  types.PolicyPosition
			area               string
			embedding, stances sql.NullString
			extractedAt        sql.NullInt64
		)
		if err := rows.Scan(&p.CandidateID, &area, &p.Position, &embedding, &stances, &extractedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		p.PolicyArea = types.PolicyArea(area)
		if err := decodeJSON(embedding, &p.Embedding); err != nil {
			return nil, fmt.Errorf("position %s/%s embedding: %w", p.CandidateID, area, err)
		}
		if err := decodeJSON(stances, &p.Stances); err != nil {
			return nil, fmt.Errorf("position %s/%s stances: %w", p.CandidateID, area, err)
		}
		if extractedAt.Valid {
			t := time.Unix(0, extractedAt.Int64).UTC()
			p.ExtractedAt = &t
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
func (s *Store) GetQuestionsByIDs(ctx context.Context, ids []string) ([]types.Question, error) {
	if len(ids) == 0 {
		return []types.Question{}, nil
	}
	query := `SELECT id, policy_area, text, type, options, embedding, weight, bias_score
		FROM questions WHERE id IN (` + placeholders(len(ids)) + `) ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	return collectQuestions(rows)
}

// ListQuestions returns the full question catalog.
func (s *Store) ListQuestions(ctx context.Context) ([]types.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, policy_area, text, type, options, embedding, weight, bias_score
		 FROM questions ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	return collectQuestions(rows)
}

func collectQuestions(rows *sql.Rows) ([]types.Question, error) {
	defer rows.Close()

	questions := make([]types.Question, 0)
	for rows.Next() {
		var (
			q                  types.Question
			area, qt           string
			options, embedding sql.NullString
			bias               sql.NullFloat64
		)
		if err := rows.Scan(&q.QuestionID, &area, &q.Text, &qt, &options, &embedding, &q.Weight, &bias); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.PolicyArea = types.PolicyArea(area)
		q.Type = types.QuestionType(qt)
		if err := decodeJSON(options, &q.Options); err != nil {
			return nil, fmt.Errorf("question %s options: %w", q.QuestionID, err)
		}
		if err := decodeJSON(embedding, &q.Embedding); err != nil {
			return nil, fmt.Errorf("question %s embedding: %w", q.QuestionID, err)
		}
		if bias.Valid {
			v := bias.Float64
			q.BiasScore = &v
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}

// GetCandidates returns the candidates whose ids are in ids. An empty ids
// returns every candidate.
func (s *Store) GetCandidates(ctx context.Context, ids []string) ([]types.Candidate, error) {
	query := `SELECT id, name, party FROM candidates ORDER BY seq`
	var args []any
	if len(ids) > 0 {
		query = `SELECT id, name, party FROM candidates WHERE id IN (` + placeholders(len(ids)) + `) ORDER BY seq`
		args = toArgs(ids)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
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
func (s *Store) UpsertCandidate(ctx context.Context, c types.Candidate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO candidates (id, name, party) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET name = excluded.name, party = excluded.party`,
		c.ID, c.Name, c.Party,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate %s: %w", c.ID, err)
	}
	return nil
}

// UpsertQuestion inserts or updates a question by id. A question without an
// embedding keeps the stored one while its text is unchanged.
func (s *Store) UpsertQuestion(ctx context.Context, q types.Question) error {
	options, err := encodeJSON(q.Options, len(q.Options) == 0)
	if err != nil {
		return err
	}
	embedding, err := encodeJSON(q.Embedding, len(q.Embedding) == 0)
	if err != nil {
		return err
	}
	var bias any
	if q.BiasScore != nil {
		bias = *q.BiasScore
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (id, policy_area, text, type, options, embedding, weight, bias_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			policy_area = excluded.policy_area,
			text = excluded.text,
			type = excluded.type,
			options = excluded.options,
			embedding = CASE
				WHEN excluded.embedding IS NOT NULL THEN excluded.embedding
				WHEN questions.text = excluded.text THEN questions.embedding
			END,
			weight = excluded.weight,
			bias_score = excluded.bias_score`,
		q.QuestionID, string(q.PolicyArea), q.Text, string(q.Type), options, embedding, q.Weight, bias,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert question %s: %w", q.QuestionID, err)
	}
	return nil
}

// UpsertPosition inserts or replaces the position for (candidate, area).
// A position without an embedding or stances keeps the stored ones while its
// text is unchanged.
func (s *Store) UpsertPosition(ctx context.Context, p types.PolicyPosition) error {
	embedding, err := encodeJSON(p.Embedding, len(p.Embedding) == 0)
	if err != nil {
		return err
	}
	stances, err := encodeJSON(p.Stances, len(p.Stances) == 0)
	if err != nil {
		return err
	}
	var extractedAt any
	if p.ExtractedAt != nil {
		extractedAt = p.ExtractedAt.UnixNano()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO policy_positions (candidate_id, policy_area, position, embedding, stances, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (candidate_id, policy_area) DO UPDATE SET
			position = excluded.position,
			embedding = CASE
				WHEN excluded.embedding IS NOT NULL THEN excluded.embedding
				WHEN policy_positions.position = excluded.position THEN policy_positions.embedding
			END,
			stances = CASE
				WHEN excluded.stances IS NOT NULL THEN excluded.stances
				WHEN policy_positions.position = excluded.position THEN policy_positions.stances
			END,
			extracted_at = excluded.extracted_at`,
		p.CandidateID, string(p.PolicyArea), p.Position, embedding, stances, extractedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position %s/%s: %w", p.CandidateID, p.PolicyArea, err)
	}
	return nil
}

// UpdateQuestionEmbedding stores the embedding for a question.
func (s *Store) UpdateQuestionEmbedding(ctx context.Context, questionID string, embedding []float64) error {
	encoded, err := encodeJSON(embedding, len(embedding) == 0)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE questions SET embedding = ? WHERE id = ?`, encoded, questionID)
	if err != nil {
		return fmt.Errorf("failed to update question embedding %s: %w", questionID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("question not found: %s", questionID)
	}
	return nil
}

// UpdatePositionEmbedding stores the embedding for a (candidate, area) position.
func (s *Store) UpdatePositionEmbedding(ctx context.Context, candidateID string, area types.PolicyArea, embedding []float64) error {
	encoded, err := encodeJSON(embedding, len(embedding) == 0)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE policy_positions SET embedding = ? WHERE candidate_id = ? AND policy_area = ?`,
		encoded, candidateID, string(area),
	)
	if err != nil {
		return fmt.Errorf("failed to update position embedding %s/%s: %w", candidateID, area, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("position not found: %s/%s", candidateID, area)
	}
	return nil
}

// encodeJSON marshals v for a TEXT column, or returns NULL when empty.
func encodeJSON(v any, empty bool) (any, error) {
	if empty {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal column value: %w", err)
	}
	return string(b), nil
}

func decodeJSON(col sql.NullString, dst any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), dst); err != nil {
		return fmt.Errorf("failed to decode column value: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
