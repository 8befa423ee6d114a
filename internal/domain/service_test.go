package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationdesk/internal/core/apperror"
	appctx "stationdesk/internal/core/context"
	"stationdesk/internal/core/entity"
	"stationdesk/internal/core/id"
)

type note struct {
	entity.BaseRecord
	Text string
}

func (n *note) Validate(ctx context.Context) error {
	if n.Text == "" {
		return apperror.NewFieldValidation("text", "text is required")
	}
	return nil
}

type memRepo struct {
	items map[id.ID]*note
	fail  error
}

func newMemRepo() *memRepo { return &memRepo{items: map[id.ID]*note{}} }

func (r *memRepo) Create(ctx context.Context, n *note) error {
	if r.fail != nil {
		return r.fail
	}
	cp := *n
	r.items[n.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, recID id.ID) (*note, error) {
	n, ok := r.items[recID]
	if !ok {
		return nil, apperror.NewNotFound("notes", recID.String())
	}
	cp := *n
	return &cp, nil
}

func (r *memRepo) Update(ctx context.Context, n *note) error {
	cur, ok := r.items[n.ID]
	if !ok {
		return apperror.NewNotFound("notes", n.ID.String())
	}
	if cur.Version != n.Version {
		return apperror.NewConcurrentModification("notes", n.ID)
	}
	cp := *n
	cp.Version++
	r.items[n.ID] = &cp
	return nil
}

func (r *memRepo) SetDeletionMark(ctx context.Context, recID id.ID, marked bool) error {
	n, ok := r.items[recID]
	if !ok {
		return apperror.NewNotFound("notes", recID.String())
	}
	n.DeletionMark = marked
	return nil
}

func (r *memRepo) List(ctx context.Context, f ListFilter) (ListResult[*note], error) {
	res := ListResult[*note]{Page: f.Page, PerPage: f.PerPage}
	for _, n := range r.items {
		res.Items = append(res.Items, n)
	}
	res.Total = int64(len(res.Items))
	return res, nil
}

type recordingPublisher struct {
	events []Event
	fail   error
}

func (p *recordingPublisher) Publish(ctx context.Context, e Event) error {
	if p.fail != nil {
		return p.fail
	}
	p.events = append(p.events, e)
	return nil
}

func newNoteService(repo *memRepo, pub EventPublisher) *RecordService[*note] {
	svc := NewRecordService(RecordServiceConfig[*note]{
		Repo:          repo,
		Events:        pub,
		EntityName:    "note",
		AggregateType: "note",
	})
	svc.SetClock(func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) })
	return svc
}

func userCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "clerk-1", Roles: []string{appctx.RoleClerk}})
}

func TestRecordService_CreateStampsAndPublishes(t *testing.T) {
	repo := newMemRepo()
	pub := &recordingPublisher{}
	svc := newNoteService(repo, pub)

	n := &note{Text: "pump 3 receipt printer jammed"}
	require.NoError(t, svc.Create(userCtx(), n))

	assert.False(t, id.IsNil(n.ID))
	assert.Equal(t, 1, n.Version)
	assert.Equal(t, "clerk-1", n.CreatedBy)
	assert.Equal(t, "clerk-1", n.UpdatedBy)
	assert.Equal(t, 2026, n.CreatedAt.Year())

	require.Len(t, pub.events, 1)
	assert.Equal(t, "note.created", pub.events[0].RoutingKey())
	assert.Equal(t, n.ID, pub.events[0].AggregateID)
}

func TestRecordService_CreateValidationError(t *testing.T) {
	repo := newMemRepo()
	pub := &recordingPublisher{}
	svc := newNoteService(repo, pub)

	err := svc.Create(userCtx(), &note{})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Empty(t, repo.items)
	assert.Empty(t, pub.events)
}

func TestRecordService_BeforeHookAborts(t *testing.T) {
	repo := newMemRepo()
	svc := newNoteService(repo, &recordingPublisher{})
	svc.Hooks().OnBeforeCreate(func(ctx context.Context, n *note) error {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "closed day")
	})

	err := svc.Create(userCtx(), &note{Text: "x"})
	assert.True(t, apperror.IsCode(err, apperror.CodeBusinessRule))
	assert.Empty(t, repo.items)
}

func TestRecordService_UpdateOptimisticLock(t *testing.T) {
	repo := newMemRepo()
	svc := newNoteService(repo, &recordingPublisher{})

	n := &note{Text: "v1"}
	require.NoError(t, svc.Create(userCtx(), n))

	fresh, err := svc.GetByID(userCtx(), n.ID)
	require.NoError(t, err)
	fresh.Text = "v2"
	require.NoError(t, svc.Update(userCtx(), fresh))
	assert.Equal(t, 2, fresh.Version)

	stale := *n
	stale.Text = "v2-stale"
	err = svc.Update(userCtx(), &stale)
	assert.True(t, apperror.IsCode(err, apperror.CodeConcurrentModification))
}

func TestRecordService_DeleteMissing(t *testing.T) {
	svc := newNoteService(newMemRepo(), &recordingPublisher{})

	err := svc.Delete(userCtx(), id.New())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	assert.Equal(t, "note", appErr.Details["entity"])
}

func TestRecordService_DeleteMarksAndPublishes(t *testing.T) {
	repo := newMemRepo()
	pub := &recordingPublisher{}
	svc := newNoteService(repo, pub)

	n := &note{Text: "x"}
	require.NoError(t, svc.Create(userCtx(), n))
	require.NoError(t, svc.Delete(userCtx(), n.ID))

	assert.True(t, repo.items[n.ID].DeletionMark)
	assert.Equal(t, "note.deleted", pub.events[len(pub.events)-1].RoutingKey())
}

func TestRecordService_PublishFailureFailsWrite(t *testing.T) {
	svc := newNoteService(newMemRepo(), &recordingPublisher{fail: errors.New("outbox down")})

	err := svc.Create(userCtx(), &note{Text: "x"})
	assert.ErrorContains(t, err, "outbox down")
}

func TestRecordService_ListNormalizes(t *testing.T) {
	svc := newNoteService(newMemRepo(), nil)

	res, err := svc.List(context.Background(), ListFilter{PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, MaxPerPage, res.PerPage)

	_, err = svc.List(context.Background(), ListFilter{SortDirection: "sideways"})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestRecordService_DeletedRecordRejectsWrites(t *testing.T) {
	repo := newMemRepo()
	pub := &recordingPublisher{}
	svc := newNoteService(repo, pub)

	n := &note{Text: "x"}
	require.NoError(t, svc.Create(userCtx(), n))
	require.NoError(t, svc.Delete(userCtx(), n.ID))

	err := svc.Delete(userCtx(), n.ID)
	assert.True(t, apperror.IsNotFound(err), "got %v", err)

	edit := *repo.items[n.ID]
	edit.Text = "revived"
	err = svc.Update(userCtx(), &edit)
	assert.True(t, apperror.IsNotFound(err), "got %v", err)
	assert.Equal(t, "x", repo.items[n.ID].Text)

	_, err = svc.GetLive(userCtx(), n.ID)
	assert.True(t, apperror.IsNotFound(err))

	// reads by id still see it
	got, err := svc.GetByID(userCtx(), n.ID)
	require.NoError(t, err)
	assert.True(t, got.DeletionMark)

	require.Len(t, pub.events, 2)
	assert.Equal(t, "note.deleted", pub.events[1].RoutingKey())
}

func TestRecordService_ChangeHookSeesStored(t *testing.T) {
	repo := newMemRepo()
	svc := newNoteService(repo, &recordingPublisher{})
	svc.Hooks().OnChange(func(ctx context.Context, stored, n *note) error {
		n.Text = stored.Text + " / " + n.Text
		return nil
	})

	n := &note{Text: "v1"}
	require.NoError(t, svc.Create(userCtx(), n))

	edit := *n
	edit.Text = "v2"
	require.NoError(t, svc.Update(userCtx(), &edit))
	assert.Equal(t, "v1 / v2", repo.items[n.ID].Text)

	err := svc.Update(userCtx(), &note{BaseRecord: entity.BaseRecord{ID: id.New(), Version: 1}, Text: "ghost"})
	assert.True(t, apperror.IsNotFound(err))
}
