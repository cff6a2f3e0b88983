package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/dashboard"
	"github.com/edgehq/edge-backend-go/internal/pkg/database"
)

type dashboardRepository struct {
	db *database.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *database.DB) dashboard.Repository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountActiveEmployees(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM employees
		WHERE is_active = true AND deleted_at IS NULL
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}

	return count, nil
}

// GetCycleStats aggregates completion and rating figures for one cycle.
// "Self completed" counts every assessment at or past employee_submitted;
// "reviews completed" counts manager_completed and beyond.
func (r *dashboardRepository) GetCycleStats(ctx context.Context, cycleID string) (dashboard.CycleStats, error) {
	q := GetQuerier(ctx, r.db)

	stats := dashboard.CycleStats{
		CycleID:            cycleID,
		RatingDistribution: make(map[int]int64),
	}

	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE state NOT IN ($2, $3)),
			COUNT(*) FILTER (WHERE state IN ($4, $5, $6)),
			COUNT(*) FILTER (WHERE state = $6),
			COALESCE(AVG((manager_review->>'overall_rating')::numeric)
				FILTER (WHERE state IN ($4, $5, $6)), 0)
		FROM assessments
		WHERE cycle_id = $1
	`, cycleID,
		string(assessment.StateNotStarted),
		string(assessment.StateInProgress),
		string(assessment.StateManagerCompleted),
		string(assessment.StateAdminApproved),
		string(assessment.StateEmployeeAcknowledged),
	).Scan(
		&stats.TotalAssessments,
		&stats.SelfCompleted,
		&stats.ReviewsCompleted,
		&stats.Acknowledged,
		&stats.AverageRating,
	)
	if err != nil {
		return dashboard.CycleStats{}, fmt.Errorf("failed to aggregate cycle stats: %w", err)
	}

	if stats.TotalAssessments > 0 {
		stats.CompletionPercent = decimal.NewFromInt(stats.ReviewsCompleted).
			Div(decimal.NewFromInt(stats.TotalAssessments)).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	}

	rows, err := q.Query(ctx, `
		SELECT (manager_review->>'overall_rating')::int AS rating, COUNT(*)
		FROM assessments
		WHERE cycle_id = $1
		  AND state IN ($2, $3, $4)
		  AND manager_review->>'overall_rating' IS NOT NULL
		GROUP BY rating
	`, cycleID,
		string(assessment.StateManagerCompleted),
		string(assessment.StateAdminApproved),
		string(assessment.StateEmployeeAcknowledged),
	)
	if err != nil {
		return dashboard.CycleStats{}, fmt.Errorf("failed to aggregate rating distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return dashboard.CycleStats{}, fmt.Errorf("failed to scan rating bucket: %w", err)
		}
		stats.RatingDistribution[rating] = count
	}

	return stats, rows.Err()
}

func (r *dashboardRepository) GetPulseTrend(ctx context.Context, since time.Time) ([]dashboard.PulseTrendPoint, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT to_char(date_trunc('week', created_at), 'IYYY-"W"IW') AS week,
		       AVG(score::numeric), COUNT(*)
		FROM pulse_responses
		WHERE created_at >= $1
		GROUP BY date_trunc('week', created_at)
		ORDER BY date_trunc('week', created_at)
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate pulse trend: %w", err)
	}
	defer rows.Close()

	var trend []dashboard.PulseTrendPoint
	for rows.Next() {
		var p dashboard.PulseTrendPoint
		if err := rows.Scan(&p.Week, &p.AverageScore, &p.Responses); err != nil {
			return nil, fmt.Errorf("failed to scan pulse trend point: %w", err)
		}
		trend = append(trend, p)
	}

	return trend, rows.Err()
}
