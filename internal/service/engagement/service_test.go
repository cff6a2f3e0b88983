package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/domain/engagement"
	"github.com/edgehq/edge-backend-go/internal/domain/notification"
)

type memEngagementRepo struct {
	pulses   []engagement.PulseResponse
	feedback []engagement.Feedback
	kudos    []engagement.Kudo
}

func (r *memEngagementRepo) CreatePulse(_ context.Context, p engagement.PulseResponse) (engagement.PulseResponse, error) {
	r.pulses = append(r.pulses, p)
	return p, nil
}

func (r *memEngagementRepo) ListPulsesByEmployee(_ context.Context, employeeID string, since time.Time) ([]engagement.PulseResponse, error) {
	var out []engagement.PulseResponse
	for _, p := range r.pulses {
		if p.EmployeeID == employeeID && !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memEngagementRepo) GetLatestPulse(_ context.Context, employeeID string) (engagement.PulseResponse, error) {
	var latest *engagement.PulseResponse
	for i := range r.pulses {
		p := r.pulses[i]
		if p.EmployeeID != employeeID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = &p
		}
	}
	if latest == nil {
		return engagement.PulseResponse{}, engagement.ErrPulseNotFound
	}
	return *latest, nil
}

func (r *memEngagementRepo) CreateFeedback(_ context.Context, f engagement.Feedback) (engagement.Feedback, error) {
	r.feedback = append(r.feedback, f)
	return f, nil
}

func (r *memEngagementRepo) ListFeedbackForRecipient(_ context.Context, recipientID string) ([]engagement.Feedback, error) {
	var out []engagement.Feedback
	for _, f := range r.feedback {
		if f.RecipientID == recipientID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memEngagementRepo) CreateKudo(_ context.Context, k engagement.Kudo) (engagement.Kudo, error) {
	r.kudos = append(r.kudos, k)
	return k, nil
}

func (r *memEngagementRepo) ListKudosForRecipient(_ context.Context, recipientID string) ([]engagement.Kudo, error) {
	var out []engagement.Kudo
	for _, k := range r.kudos {
		if k.RecipientID == recipientID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *memEngagementRepo) ListRecentKudos(_ context.Context, limit int) ([]engagement.Kudo, error) {
	if len(r.kudos) > limit {
		return r.kudos[len(r.kudos)-limit:], nil
	}
	return r.kudos, nil
}

type recordingDispatcher struct {
	intents []notification.Intent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, _ *string, intents []notification.Intent) {
	d.intents = append(d.intents, intents...)
}

var pulseActor = assessment.Actor{EmployeeID: "emp-1", Role: employee.RoleEmployee}

func TestEngagementService_SubmitPulse(t *testing.T) {
	ctx := context.Background()
	repo := &memEngagementRepo{}
	svc := NewEngagementService(repo, &recordingDispatcher{}, nil)

	comment := "good sprint"
	p, err := svc.SubmitPulse(ctx, pulseActor, 4, &comment)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Score)
	assert.Equal(t, "emp-1", p.EmployeeID)
}

func TestEngagementService_SubmitPulse_ScoreBounds(t *testing.T) {
	ctx := context.Background()
	svc := NewEngagementService(&memEngagementRepo{}, &recordingDispatcher{}, nil)

	for _, score := range []int{0, 6, -3} {
		_, err := svc.SubmitPulse(ctx, pulseActor, score, nil)
		assert.ErrorIs(t, err, engagement.ErrInvalidScore, "score %d", score)
	}
}

func TestEngagementService_SubmitPulse_Cadence(t *testing.T) {
	ctx := context.Background()
	repo := &memEngagementRepo{}

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clock := base
	svc := NewEngagementService(repo, &recordingDispatcher{}, func() time.Time { return clock })

	_, err := svc.SubmitPulse(ctx, pulseActor, 3, nil)
	require.NoError(t, err)

	// Three days later is still inside the weekly cadence.
	clock = base.Add(3 * 24 * time.Hour)
	_, err = svc.SubmitPulse(ctx, pulseActor, 5, nil)
	assert.ErrorIs(t, err, engagement.ErrAlreadyResponded)

	// A week later the window has passed.
	clock = base.Add(7*24*time.Hour + time.Minute)
	_, err = svc.SubmitPulse(ctx, pulseActor, 5, nil)
	assert.NoError(t, err)

	// Another employee is never blocked by emp-1's cadence.
	other := assessment.Actor{EmployeeID: "emp-2", Role: employee.RoleEmployee}
	clock = base.Add(3 * 24 * time.Hour)
	_, err = svc.SubmitPulse(ctx, other, 2, nil)
	assert.NoError(t, err)
}

func TestEngagementService_SendFeedback(t *testing.T) {
	ctx := context.Background()
	repo := &memEngagementRepo{}
	svc := NewEngagementService(repo, &recordingDispatcher{}, nil)

	f, err := svc.SendFeedback(ctx, pulseActor, "emp-2", "Great pairing session", map[string]interface{}{"gets_it": true})
	require.NoError(t, err)
	assert.Equal(t, "emp-1", f.AuthorID)
	assert.Equal(t, "emp-2", f.RecipientID)

	_, err = svc.SendFeedback(ctx, pulseActor, "emp-1", "note to self", nil)
	assert.ErrorIs(t, err, engagement.ErrSelfRecognition)

	_, err = svc.SendFeedback(ctx, pulseActor, "emp-2", "   ", nil)
	assert.Error(t, err)
}

func TestEngagementService_SendKudo_DispatchesNotification(t *testing.T) {
	ctx := context.Background()
	repo := &memEngagementRepo{}
	dispatcher := &recordingDispatcher{}
	svc := NewEngagementService(repo, dispatcher, nil)

	emoji := ":tada:"
	k, err := svc.SendKudo(ctx, pulseActor, "emp-2", "Saved the release", &emoji)
	require.NoError(t, err)
	assert.NotEmpty(t, k.ID)

	require.Len(t, dispatcher.intents, 1)
	intent := dispatcher.intents[0]
	assert.Equal(t, "emp-2", intent.RecipientID)
	assert.Equal(t, notification.TypeKudoReceived, intent.Type)
	assert.Equal(t, k.ID, intent.Data["kudo_id"])
}

func TestEngagementService_SendKudo_Guards(t *testing.T) {
	ctx := context.Background()
	dispatcher := &recordingDispatcher{}
	svc := NewEngagementService(&memEngagementRepo{}, dispatcher, nil)

	_, err := svc.SendKudo(ctx, pulseActor, "emp-1", "self five", nil)
	assert.ErrorIs(t, err, engagement.ErrSelfRecognition)

	_, err = svc.SendKudo(ctx, pulseActor, "emp-2", "  ", nil)
	assert.Error(t, err)

	assert.Empty(t, dispatcher.intents)
}

func TestEngagementService_ListRecentKudos_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	repo := &memEngagementRepo{}
	svc := NewEngagementService(repo, &recordingDispatcher{}, nil)

	for i := 0; i < 30; i++ {
		_, err := svc.SendKudo(ctx, pulseActor, "emp-2", "nice work", nil)
		require.NoError(t, err)
	}

	list, err := svc.ListRecentKudos(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 20, "out-of-range limit falls back to the default")

	list, err = svc.ListRecentKudos(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}
