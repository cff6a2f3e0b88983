package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/domain/notification"
)

// ReminderJobs nudges employees and managers about overdue assessments.
// Reminders live outside the workflow engine: they read state, they never
// transition it.
type ReminderJobs struct {
	assessmentRepo assessment.Repository
	notifications  notification.Service
}

// NewReminderJobs creates assessment reminder cron jobs
func NewReminderJobs(assessmentRepo assessment.Repository, notifications notification.Service) *ReminderJobs {
	return &ReminderJobs{
		assessmentRepo: assessmentRepo,
		notifications:  notifications,
	}
}

// RegisterJobs registers all reminder jobs
func (j *ReminderJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(
		"overdue_assessment_reminders",
		interval,
		j.SendOverdueReminders,
	)
}

// SendOverdueReminders notifies the owner of every overdue assessment, and
// the assigned manager once the ball is in their court.
func (j *ReminderJobs) SendOverdueReminders(ctx context.Context) error {
	now := time.Now()

	overdue, err := j.assessmentRepo.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list overdue assessments: %w", err)
	}
	if len(overdue) == 0 {
		return nil
	}

	var intents []notification.Intent
	reminded := make([]string, 0, len(overdue))
	for _, a := range overdue {
		reminded = append(reminded, a.ID)

		switch a.ManagerStatus() {
		case assessment.ManagerStatusPending:
			if a.SelfStatus() != assessment.SelfStatusComplete {
				intents = append(intents, notification.Intent{
					RecipientID:   a.EmployeeID,
					RecipientRole: employee.RoleEmployee,
					Type:          notification.TypeAssessmentOverdue,
					Title:         "Self-assessment overdue",
					Message:       "Your self-assessment is past its due date. Please complete and submit it.",
					Data:          map[string]interface{}{"assessment_id": a.ID},
				})
				continue
			}
			fallthrough
		case assessment.ManagerStatusInProgress:
			if a.ManagerID != nil {
				intents = append(intents, notification.Intent{
					RecipientID:   *a.ManagerID,
					RecipientRole: employee.RoleManager,
					Type:          notification.TypeAssessmentOverdue,
					Title:         "Manager review overdue",
					Message:       "A review on your team is past its due date.",
					Data:          map[string]interface{}{"assessment_id": a.ID},
				})
			}
		}
	}

	j.notifications.Dispatch(ctx, nil, intents)

	if err := j.assessmentRepo.MarkReminded(ctx, reminded, now); err != nil {
		return fmt.Errorf("failed to mark assessments reminded: %w", err)
	}

	return nil
}
