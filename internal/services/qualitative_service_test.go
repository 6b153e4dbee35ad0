package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/sales-objectives-api/internal/engine"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/utils"
)

type stubDrafter struct {
	drafts []DraftObjective
	err    error
}

func (s stubDrafter) DraftQualitativeObjectives(ctx context.Context, text string) ([]DraftObjective, error) {
	return s.drafts, s.err
}

func TestQualitativeService_CreateWithAssignees(t *testing.T) {
	db, uow := newTestUoW(t)
	service := NewQualitativeService(uow, nil)
	alice := createUser(t, db, "alice", true)
	bob := createUser(t, db, "bob", true)

	objective, err := service.Create(CreateQualitativeInput{
		Name:        "Run onboarding training",
		AssigneeIDs: []uint64{bob.ID, alice.ID, bob.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, objective.Status)
	require.Len(t, objective.Assignees, 2)
	assert.True(t, objective.AssignedTo(alice.ID))
	assert.True(t, objective.AssignedTo(bob.ID))

	_, err = service.Create(CreateQualitativeInput{Name: "Ghost", AssigneeIDs: []uint64{9999}})
	assert.ErrorIs(t, err, ErrInvalidAssignee)

	_, err = service.Create(CreateQualitativeInput{Name: " "})
	assert.ErrorIs(t, err, engine.ErrInvalidInput)

	objectives, total, err := service.List(utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, objectives, 1)
}

func TestQualitativeService_ListForContributorIncludesGlobal(t *testing.T) {
	db, uow := newTestUoW(t)
	service := NewQualitativeService(uow, nil)
	alice := createUser(t, db, "alice", true)
	bob := createUser(t, db, "bob", true)

	_, err := service.Create(CreateQualitativeInput{Name: "Mine", AssigneeIDs: []uint64{alice.ID}})
	require.NoError(t, err)
	_, err = service.Create(CreateQualitativeInput{Name: "Bob's", AssigneeIDs: []uint64{bob.ID}})
	require.NoError(t, err)
	_, err = service.Create(CreateQualitativeInput{Name: "Everyone", IsGlobal: true})
	require.NoError(t, err)

	objectives, err := service.ListForContributor(alice.ID)
	require.NoError(t, err)
	names := make([]string, len(objectives))
	for i, o := range objectives {
		names[i] = o.Name
	}
	assert.ElementsMatch(t, []string{"Mine", "Everyone"}, names)
}

func TestQualitativeService_Complete(t *testing.T) {
	_, uow := newTestUoW(t)
	service := NewQualitativeService(uow, nil)
	service.now = fixedClock(date(2025, 5, 1))
	due := date(2025, 4, 30)

	objective, err := service.Create(CreateQualitativeInput{Name: "Account plan", DueDate: &due})
	require.NoError(t, err)

	early := date(2025, 4, 1)
	_, err = service.Complete(objective.ID, CompleteQualitativeInput{CompletionDate: &early})
	assert.ErrorIs(t, err, engine.ErrCompletionBeforeDue)

	completed, err := service.Complete(objective.ID, CompleteQualitativeInput{Score: floatPtr(4), SupervisorNote: "solid"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletionDate)
	assert.True(t, completed.CompletionDate.Equal(date(2025, 5, 1)))
	assert.Equal(t, "solid", completed.SupervisorNote)

	stored, err := service.Get(objective.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Equal(t, 4.0, *stored.Score)
}

func TestQualitativeService_UpdateAndAssignees(t *testing.T) {
	db, uow := newTestUoW(t)
	service := NewQualitativeService(uow, nil)
	alice := createUser(t, db, "alice", true)
	bob := createUser(t, db, "bob", true)

	objective, err := service.Create(CreateQualitativeInput{Name: "Mentoring", AssigneeIDs: []uint64{alice.ID}})
	require.NoError(t, err)

	name := "Mentor two juniors"
	status := models.StatusInProgress
	updated, err := service.Update(objective.ID, UpdateQualitativeInput{Name: &name, Status: &status, Weight: floatPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, 2.0, *updated.Weight)

	invalid := models.ObjectiveStatus("archived")
	_, err = service.Update(objective.ID, UpdateQualitativeInput{Status: &invalid})
	assert.ErrorIs(t, err, engine.ErrInvalidInput)

	reassigned, err := service.SetAssignees(objective.ID, []uint64{bob.ID})
	require.NoError(t, err)
	assert.False(t, reassigned.AssignedTo(alice.ID))
	assert.True(t, reassigned.AssignedTo(bob.ID))

	_, err = service.SetAssignees(9999, []uint64{bob.ID})
	assert.ErrorIs(t, err, ErrQualitativeObjectiveNotFound)
}

func TestQualitativeService_Delete(t *testing.T) {
	db, uow := newTestUoW(t)
	service := NewQualitativeService(uow, nil)
	alice := createUser(t, db, "alice", true)

	objective, err := service.Create(CreateQualitativeInput{Name: "Mentoring", AssigneeIDs: []uint64{alice.ID}})
	require.NoError(t, err)

	require.NoError(t, service.Delete(objective.ID))
	_, err = service.Get(objective.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var links int64
	require.NoError(t, db.Model(&models.QualitativeObjectiveAssignee{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestQualitativeService_GenerateDrafts(t *testing.T) {
	_, uow := newTestUoW(t)
	now := date(2025, 5, 1)
	past := now.Add(-72 * time.Hour)
	future := now.Add(72 * time.Hour)

	service := NewQualitativeService(uow, stubDrafter{drafts: []DraftObjective{
		{Name: "  Train new hires  ", DueDate: &future},
		{Name: ""},
		{Name: "Clean up CRM", DueDate: &past},
	}})
	service.now = fixedClock(now)

	drafts, err := service.GenerateDrafts(context.Background(), "notes")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Train new hires", drafts[0].Name)
	assert.NotNil(t, drafts[0].DueDate)
	assert.Nil(t, drafts[1].DueDate)

	objectives, err := uow.QualitativeObjectives().ListAll()
	require.NoError(t, err)
	assert.Empty(t, objectives, "drafts are not persisted")
}

func TestQualitativeService_GenerateDraftsErrors(t *testing.T) {
	_, uow := newTestUoW(t)

	_, err := NewQualitativeService(uow, nil).GenerateDrafts(context.Background(), "notes")
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)

	_, err = NewQualitativeService(uow, stubDrafter{}).GenerateDrafts(context.Background(), "notes")
	assert.ErrorIs(t, err, ErrAINoDraftsGenerated)

	_, err = NewQualitativeService(uow, stubDrafter{drafts: []DraftObjective{{Name: " "}}}).GenerateDrafts(context.Background(), "notes")
	assert.ErrorIs(t, err, ErrAINoValidDrafts)

	upstream := errors.New("rate limited")
	_, err = NewQualitativeService(uow, stubDrafter{err: upstream}).GenerateDrafts(context.Background(), "notes")
	assert.ErrorIs(t, err, upstream)
}
