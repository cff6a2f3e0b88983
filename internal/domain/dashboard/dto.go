package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/engagement"
)

// EmployeeDashboard is the self-service landing view.
type EmployeeDashboard struct {
	Assessments []assessment.AssessmentResponse `json:"assessments"`
	Kudos       []engagement.Kudo               `json:"kudos"`
	PulseDue    bool                            `json:"pulse_due"`
	UnreadCount int                             `json:"unread_notifications"`
}

// TeamMemberProgress is one row of the manager dashboard.
type TeamMemberProgress struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	AssessmentID string `json:"assessment_id,omitempty"`
	State        string `json:"state,omitempty"`
	SelfStatus   string `json:"self_assessment_status,omitempty"`
	ReviewStatus string `json:"manager_review_status,omitempty"`
	Overdue      bool   `json:"overdue"`
}

// ManagerDashboard summarizes the manager's team for the active cycles.
type ManagerDashboard struct {
	Team           []TeamMemberProgress `json:"team"`
	PendingReviews int                  `json:"pending_reviews"`
}

// CycleStats is the admin analytics block for one cycle.
type CycleStats struct {
	CycleID            string          `json:"cycle_id"`
	CycleName          string          `json:"cycle_name"`
	TotalAssessments   int64           `json:"total_assessments"`
	SelfCompleted      int64           `json:"self_completed"`
	ReviewsCompleted   int64           `json:"reviews_completed"`
	Acknowledged       int64           `json:"acknowledged"`
	CompletionPercent  decimal.Decimal `json:"completion_percent"`
	AverageRating      decimal.Decimal `json:"average_rating"`
	RatingDistribution map[int]int64   `json:"rating_distribution"`
}

// PulseTrendPoint is one bucket of the org-wide pulse trend.
type PulseTrendPoint struct {
	Week         string          `json:"week"`
	AverageScore decimal.Decimal `json:"average_score"`
	Responses    int64           `json:"responses"`
}

// AdminDashboard is the admin analytics view.
type AdminDashboard struct {
	ActiveEmployees int64             `json:"active_employees"`
	Cycles          []CycleStats      `json:"cycles"`
	PulseTrend      []PulseTrendPoint `json:"pulse_trend"`
}
