package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/edgehq/edge-backend-go/internal/domain/engagement"
	"github.com/edgehq/edge-backend-go/internal/pkg/database"
)

type engagementRepository struct {
	db *database.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *database.DB) engagement.Repository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) CreatePulse(ctx context.Context, p engagement.PulseResponse) (engagement.PulseResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pulse_responses (id, employee_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.Exec(ctx, query, p.ID, p.EmployeeID, p.Score, p.Comment, p.CreatedAt)
	if err != nil {
		return engagement.PulseResponse{}, fmt.Errorf("failed to create pulse response: %w", err)
	}

	return p, nil
}

func (r *engagementRepository) ListPulsesByEmployee(ctx context.Context, employeeID string, since time.Time) ([]engagement.PulseResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, score, comment, created_at
		FROM pulse_responses
		WHERE employee_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list pulse responses: %w", err)
	}
	defer rows.Close()

	var pulses []engagement.PulseResponse
	for rows.Next() {
		var p engagement.PulseResponse
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Score, &p.Comment, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pulse response: %w", err)
		}
		pulses = append(pulses, p)
	}

	return pulses, rows.Err()
}

func (r *engagementRepository) GetLatestPulse(ctx context.Context, employeeID string) (engagement.PulseResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, score, comment, created_at
		FROM pulse_responses
		WHERE employee_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var p engagement.PulseResponse
	err := q.QueryRow(ctx, query, employeeID).Scan(&p.ID, &p.EmployeeID, &p.Score, &p.Comment, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return engagement.PulseResponse{}, engagement.ErrPulseNotFound
		}
		return engagement.PulseResponse{}, fmt.Errorf("failed to get latest pulse: %w", err)
	}

	return p, nil
}

func (r *engagementRepository) CreateFeedback(ctx context.Context, f engagement.Feedback) (engagement.Feedback, error) {
	q := GetQuerier(ctx, r.db)

	var gwcJSON []byte
	if f.GWC != nil {
		var err error
		gwcJSON, err = json.Marshal(f.GWC)
		if err != nil {
			return engagement.Feedback{}, fmt.Errorf("failed to marshal feedback gwc: %w", err)
		}
	}

	query := `
		INSERT INTO peer_feedback (id, author_id, recipient_id, body, gwc, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query, f.ID, f.AuthorID, f.RecipientID, f.Body, gwcJSON, f.CreatedAt)
	if err != nil {
		return engagement.Feedback{}, fmt.Errorf("failed to create feedback: %w", err)
	}

	return f, nil
}

func (r *engagementRepository) ListFeedbackForRecipient(ctx context.Context, recipientID string) ([]engagement.Feedback, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT f.id, f.author_id, f.recipient_id, f.body, f.gwc, f.created_at,
		       a.full_name AS author_name, rc.full_name AS recipient_name
		FROM peer_feedback f
		JOIN employees a ON f.author_id = a.id
		JOIN employees rc ON f.recipient_id = rc.id
		WHERE f.recipient_id = $1
		ORDER BY f.created_at DESC
	`

	rows, err := q.Query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var feedback []engagement.Feedback
	for rows.Next() {
		var f engagement.Feedback
		var gwcJSON []byte
		if err := rows.Scan(&f.ID, &f.AuthorID, &f.RecipientID, &f.Body, &gwcJSON, &f.CreatedAt, &f.AuthorName, &f.RecipientName); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		if gwcJSON != nil {
			if err := json.Unmarshal(gwcJSON, &f.GWC); err != nil {
				return nil, fmt.Errorf("failed to unmarshal feedback gwc: %w", err)
			}
		}
		feedback = append(feedback, f)
	}

	return feedback, rows.Err()
}

func (r *engagementRepository) CreateKudo(ctx context.Context, k engagement.Kudo) (engagement.Kudo, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO kudos (id, author_id, recipient_id, message, emoji, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query, k.ID, k.AuthorID, k.RecipientID, k.Message, k.Emoji, k.CreatedAt)
	if err != nil {
		return engagement.Kudo{}, fmt.Errorf("failed to create kudo: %w", err)
	}

	return k, nil
}

func (r *engagementRepository) listKudos(ctx context.Context, where, limitClause string, args ...interface{}) ([]engagement.Kudo, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT k.id, k.author_id, k.recipient_id, k.message, k.emoji, k.created_at,
		       a.full_name AS author_name, rc.full_name AS recipient_name
		FROM kudos k
		JOIN employees a ON k.author_id = a.id
		JOIN employees rc ON k.recipient_id = rc.id
		%s
		ORDER BY k.created_at DESC
		%s
	`, where, limitClause)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kudos: %w", err)
	}
	defer rows.Close()

	var kudos []engagement.Kudo
	for rows.Next() {
		var k engagement.Kudo
		if err := rows.Scan(&k.ID, &k.AuthorID, &k.RecipientID, &k.Message, &k.Emoji, &k.CreatedAt, &k.AuthorName, &k.RecipientName); err != nil {
			return nil, fmt.Errorf("failed to scan kudo: %w", err)
		}
		kudos = append(kudos, k)
	}

	return kudos, rows.Err()
}

func (r *engagementRepository) ListKudosForRecipient(ctx context.Context, recipientID string) ([]engagement.Kudo, error) {
	return r.listKudos(ctx, "WHERE k.recipient_id = $1", "", recipientID)
}

func (r *engagementRepository) ListRecentKudos(ctx context.Context, limit int) ([]engagement.Kudo, error) {
	return r.listKudos(ctx, "", "LIMIT $1", limit)
}
