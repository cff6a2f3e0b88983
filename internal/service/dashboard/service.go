package dashboard

import (
	"context"
	"time"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/cycle"
	"github.com/edgehq/edge-backend-go/internal/domain/dashboard"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/domain/engagement"
)

// pulseCadence is how often an employee is prompted for a pulse check-in.
const pulseCadence = 7 * 24 * time.Hour

// pulseTrendWindow is how far back the admin pulse trend reaches.
const pulseTrendWindow = 12 * 7 * 24 * time.Hour

type NotificationCounter interface {
	UnreadCount(ctx context.Context, recipientID string) (int, error)
}

type DashboardService struct {
	dashboardRepo        dashboard.Repository
	assessmentRepo       assessment.Repository
	employeeRepo         employee.Repository
	cycleRepo            cycle.Repository
	engagementRepo       engagement.Repository
	notifications        NotificationCounter
	requireAdminApproval bool
	now                  func() time.Time
}

func NewDashboardService(
	dashboardRepo dashboard.Repository,
	assessmentRepo assessment.Repository,
	employeeRepo employee.Repository,
	cycleRepo cycle.Repository,
	engagementRepo engagement.Repository,
	notifications NotificationCounter,
	requireAdminApproval bool,
	now func() time.Time,
) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		dashboardRepo:        dashboardRepo,
		assessmentRepo:       assessmentRepo,
		employeeRepo:         employeeRepo,
		cycleRepo:            cycleRepo,
		engagementRepo:       engagementRepo,
		notifications:        notifications,
		requireAdminApproval: requireAdminApproval,
		now:                  now,
	}
}

func (s *DashboardService) GetEmployeeDashboard(ctx context.Context, actor assessment.Actor) (dashboard.EmployeeDashboard, error) {
	assessments, err := s.assessmentRepo.ListByEmployee(ctx, actor.EmployeeID)
	if err != nil {
		return dashboard.EmployeeDashboard{}, err
	}

	responses := make([]assessment.AssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		responses = append(responses, assessment.ToResponse(a, actor, s.requireAdminApproval))
	}

	kudos, err := s.engagementRepo.ListKudosForRecipient(ctx, actor.EmployeeID)
	if err != nil {
		return dashboard.EmployeeDashboard{}, err
	}

	pulseDue := true
	latest, err := s.engagementRepo.GetLatestPulse(ctx, actor.EmployeeID)
	if err == nil {
		pulseDue = s.now().Sub(latest.CreatedAt) >= pulseCadence
	}

	unread, err := s.notifications.UnreadCount(ctx, actor.EmployeeID)
	if err != nil {
		return dashboard.EmployeeDashboard{}, err
	}

	return dashboard.EmployeeDashboard{
		Assessments: responses,
		Kudos:       kudos,
		PulseDue:    pulseDue,
		UnreadCount: unread,
	}, nil
}

func (s *DashboardService) GetManagerDashboard(ctx context.Context, actor assessment.Actor) (dashboard.ManagerDashboard, error) {
	if actor.Role != employee.RoleManager && actor.Role != employee.RoleAdmin {
		return dashboard.ManagerDashboard{}, assessment.ErrForbidden
	}

	team, err := s.employeeRepo.ListByManager(ctx, actor.EmployeeID)
	if err != nil {
		return dashboard.ManagerDashboard{}, err
	}

	assessments, err := s.assessmentRepo.ListByManager(ctx, actor.EmployeeID)
	if err != nil {
		return dashboard.ManagerDashboard{}, err
	}

	// Latest assessment per report. ListByManager orders newest first.
	latestByEmployee := make(map[string]assessment.Assessment, len(team))
	for _, a := range assessments {
		if _, seen := latestByEmployee[a.EmployeeID]; !seen {
			latestByEmployee[a.EmployeeID] = a
		}
	}

	now := s.now()
	rows := make([]dashboard.TeamMemberProgress, 0, len(team))
	pending := 0
	for _, member := range team {
		row := dashboard.TeamMemberProgress{
			EmployeeID:   member.ID,
			EmployeeName: member.FullName,
		}
		if a, ok := latestByEmployee[member.ID]; ok {
			row.AssessmentID = a.ID
			row.State = string(a.State)
			row.SelfStatus = string(a.SelfStatus())
			row.ReviewStatus = string(a.ManagerStatus())
			row.Overdue = a.DueDate != nil && now.After(*a.DueDate) && !assessment.IsTerminal(a.State)
			if a.State == assessment.StateEmployeeSubmitted || a.State == assessment.StateManagerInProgress {
				pending++
			}
		}
		rows = append(rows, row)
	}

	return dashboard.ManagerDashboard{
		Team:           rows,
		PendingReviews: pending,
	}, nil
}

func (s *DashboardService) GetAdminDashboard(ctx context.Context, actor assessment.Actor) (dashboard.AdminDashboard, error) {
	if actor.Role != employee.RoleAdmin {
		return dashboard.AdminDashboard{}, assessment.ErrForbidden
	}

	active, err := s.dashboardRepo.CountActiveEmployees(ctx)
	if err != nil {
		return dashboard.AdminDashboard{}, err
	}

	cycles, err := s.cycleRepo.List(ctx)
	if err != nil {
		return dashboard.AdminDashboard{}, err
	}

	stats := make([]dashboard.CycleStats, 0, len(cycles))
	for _, c := range cycles {
		if c.Status == cycle.StatusUpcoming {
			continue
		}
		cs, err := s.dashboardRepo.GetCycleStats(ctx, c.ID)
		if err != nil {
			return dashboard.AdminDashboard{}, err
		}
		cs.CycleName = c.Name
		stats = append(stats, cs)
	}

	trend, err := s.dashboardRepo.GetPulseTrend(ctx, s.now().Add(-pulseTrendWindow))
	if err != nil {
		return dashboard.AdminDashboard{}, err
	}

	return dashboard.AdminDashboard{
		ActiveEmployees: active,
		Cycles:          stats,
		PulseTrend:      trend,
	}, nil
}
