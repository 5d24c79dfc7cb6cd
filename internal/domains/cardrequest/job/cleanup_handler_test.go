package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardfolio-backend/internal/domains/cardrequest/model"
	"cardfolio-backend/internal/infrastructure/email"
	"cardfolio-backend/internal/shared"
)

// =====================================================
// CLEANUP
// =====================================================

type fakeAbandonedStore struct {
	abandoned []model.CardRequest
	cleared   []uuid.UUID
	clearErr  error
}

func (s *fakeAbandonedStore) ListAbandonedIllustrations(ctx context.Context, before time.Time) ([]model.CardRequest, error) {
	return s.abandoned, nil
}

func (s *fakeAbandonedStore) ClearIllustration(ctx context.Context, id uuid.UUID) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared = append(s.cleared, id)
	return nil
}

type fakePrefixDeleter struct {
	prefixes []string
	failOn   string
}

func (d *fakePrefixDeleter) DeleteByPrefix(ctx context.Context, prefix string) error {
	if d.failOn != "" && prefix == d.failOn {
		return errors.New("storage unavailable")
	}
	d.prefixes = append(d.prefixes, prefix)
	return nil
}

func cleanupTask() *asynq.Task {
	return asynq.NewTask(shared.TypeCleanupThumbnails, nil)
}

func TestCleanupIllustrations(t *testing.T) {
	url := "https://storage.local/cards/a/illustration.jpg"
	a := model.CardRequest{ID: uuid.New(), Status: model.StatusCancelled, IllustrationURL: &url}
	b := model.CardRequest{ID: uuid.New(), Status: model.StatusRejected, IllustrationURL: &url}

	store := &fakeAbandonedStore{abandoned: []model.CardRequest{a, b}}
	deleter := &fakePrefixDeleter{}
	handler := NewCleanupIllustrationsHandler(store, deleter)

	err := handler.ProcessTask(context.Background(), cleanupTask())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"cards/" + a.ID.String() + "/",
		"cards/" + b.ID.String() + "/",
	}, deleter.prefixes)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, store.cleared)
}

func TestCleanupSkipsCardsWhoseStorageDeleteFails(t *testing.T) {
	url := "https://storage.local/cards/a/illustration.jpg"
	failing := model.CardRequest{ID: uuid.New(), Status: model.StatusCancelled, IllustrationURL: &url}
	ok := model.CardRequest{ID: uuid.New(), Status: model.StatusRejected, IllustrationURL: &url}

	store := &fakeAbandonedStore{abandoned: []model.CardRequest{failing, ok}}
	deleter := &fakePrefixDeleter{failOn: "cards/" + failing.ID.String() + "/"}
	handler := NewCleanupIllustrationsHandler(store, deleter)

	err := handler.ProcessTask(context.Background(), cleanupTask())
	require.NoError(t, err, "a single failure must not abort the sweep")

	assert.Equal(t, []uuid.UUID{ok.ID}, store.cleared, "URLs stay set while the objects still exist")
}

// =====================================================
// STATUS EMAIL
// =====================================================

type fakeCardNameReader struct {
	cards map[uuid.UUID]*model.CardRequest
}

func (r *fakeCardNameReader) GetByID(ctx context.Context, id uuid.UUID) (*model.CardRequest, error) {
	card, ok := r.cards[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return card, nil
}

type fakeEmailService struct {
	sent []email.StatusChangeData
	err  error
}

func (s *fakeEmailService) SendStatusChangeEmail(ctx context.Context, data email.StatusChangeData) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, data)
	return nil
}

func statusEmailTask(t *testing.T, payload shared.StatusEmailPayload) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeStatusEmail, b)
}

func TestStatusEmailUsesCardName(t *testing.T) {
	card := &model.CardRequest{ID: uuid.New(), DisplayName: "Ada Lovelace"}
	reader := &fakeCardNameReader{cards: map[uuid.UUID]*model.CardRequest{card.ID: card}}
	mailer := &fakeEmailService{}
	handler := NewStatusEmailHandler(reader, mailer)

	task := statusEmailTask(t, shared.StatusEmailPayload{
		CardRequestID: card.ID.String(),
		OwnerEmail:    "owner@example.com",
		NewStatus:     "confirmed",
	})

	err := handler.ProcessTask(context.Background(), task)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Ada Lovelace", mailer.sent[0].CardName)
	assert.Equal(t, "owner@example.com", mailer.sent[0].Email)
	assert.Equal(t, "confirmed", mailer.sent[0].NewStatus)
}

func TestStatusEmailFallsBackWhenCardGone(t *testing.T) {
	reader := &fakeCardNameReader{cards: map[uuid.UUID]*model.CardRequest{}}
	mailer := &fakeEmailService{}
	handler := NewStatusEmailHandler(reader, mailer)

	task := statusEmailTask(t, shared.StatusEmailPayload{
		CardRequestID: uuid.NewString(),
		OwnerEmail:    "owner@example.com",
		NewStatus:     "rejected",
	})

	err := handler.ProcessTask(context.Background(), task)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "your card", mailer.sent[0].CardName)
}

func TestStatusEmailPropagatesSendFailure(t *testing.T) {
	reader := &fakeCardNameReader{cards: map[uuid.UUID]*model.CardRequest{}}
	mailer := &fakeEmailService{err: errors.New("smtp down")}
	handler := NewStatusEmailHandler(reader, mailer)

	task := statusEmailTask(t, shared.StatusEmailPayload{
		CardRequestID: uuid.NewString(),
		OwnerEmail:    "owner@example.com",
		NewStatus:     "confirmed",
	})

	err := handler.ProcessTask(context.Background(), task)
	assert.Error(t, err, "send failures must be retried by the queue")
}

// =====================================================
// PROCESS ILLUSTRATION
// =====================================================

type fakeIllustrationService struct {
	processed []uuid.UUID
	err       error
}

func (s *fakeIllustrationService) ProcessIllustration(ctx context.Context, cardRequestID uuid.UUID, objectKey string) error {
	if s.err != nil {
		return s.err
	}
	s.processed = append(s.processed, cardRequestID)
	return nil
}

func TestProcessIllustrationTask(t *testing.T) {
	svc := &fakeIllustrationService{}
	handler := NewProcessIllustrationHandler(svc)
	id := uuid.New()

	b, err := json.Marshal(shared.ProcessIllustrationPayload{
		CardRequestID: id.String(),
		ObjectKey:     "cards/" + id.String() + "/illustration.png",
	})
	require.NoError(t, err)

	err = handler.ProcessTask(context.Background(), asynq.NewTask(shared.TypeProcessIllustration, b))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, svc.processed)
}

func TestProcessIllustrationRejectsBadPayload(t *testing.T) {
	handler := NewProcessIllustrationHandler(&fakeIllustrationService{})

	err := handler.ProcessTask(context.Background(), asynq.NewTask(shared.TypeProcessIllustration, []byte("not json")))
	assert.Error(t, err)

	b, _ := json.Marshal(shared.ProcessIllustrationPayload{CardRequestID: "not-a-uuid"})
	err = handler.ProcessTask(context.Background(), asynq.NewTask(shared.TypeProcessIllustration, b))
	assert.Error(t, err)
}
