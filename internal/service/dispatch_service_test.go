package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/errors"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/retently"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/service"
)

type mockSender struct {
	mu    sync.Mutex
	calls []retently.SurveyContact
	err   error
}

func (m *mockSender) SendSurvey(ctx context.Context, contact retently.SurveyContact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, contact)
	return nil
}

func (m *mockSender) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func newDispatchService(repo *mockInteractionRepo, sender *mockSender) *service.DispatchService {
	return &service.DispatchService{
		Repo:   repo,
		Sender: sender,
		Logger: zap.NewNop(),
	}
}

// seedInteraction inserts a row scheduled sendAfter from now.
func seedInteraction(t *testing.T, repo *mockInteractionRepo, customerID, email string, sendAfter time.Duration) int {
	t.Helper()
	svc := newInteractionService(repo, sendAfter)
	_, err := svc.ProcessEvent(sampleEvent(customerID, email, "Name"))
	require.NoError(t, err)
	return repo.nextID
}

func TestSweepSkipsFutureRows(t *testing.T) {
	repo := newMockRepo()
	sender := &mockSender{}
	seedInteraction(t, repo, "c1", "a@x.com", time.Hour)

	require.NoError(t, newDispatchService(repo, sender).Sweep(context.Background()))
	assert.Equal(t, 0, sender.callCount())
	assert.False(t, repo.rows[1].RetentlySent)
}

func TestSweepDispatchesDueRows(t *testing.T) {
	repo := newMockRepo()
	sender := &mockSender{}
	id := seedInteraction(t, repo, "c1", "a@x.com", -time.Minute)

	require.NoError(t, newDispatchService(repo, sender).Sweep(context.Background()))

	require.Equal(t, 1, sender.callCount())
	assert.Equal(t, "a@x.com", sender.calls[0].Email)
	assert.Equal(t, "Name", sender.calls[0].FirstName)
	assert.Equal(t, "", sender.calls[0].LastName)
	assert.True(t, repo.rows[id].RetentlySent)
}

func TestSweepIsIdempotentAcrossSweeps(t *testing.T) {
	repo := newMockRepo()
	sender := &mockSender{}
	seedInteraction(t, repo, "c1", "a@x.com", -time.Minute)
	svc := newDispatchService(repo, sender)

	require.NoError(t, svc.Sweep(context.Background()))
	require.NoError(t, svc.Sweep(context.Background()))
	assert.Equal(t, 1, sender.callCount(), "second sweep must not re-dispatch")
}

func TestSweepSendFailureLeavesRowPending(t *testing.T) {
	repo := newMockRepo()
	sender := &mockSender{err: &appErrors.ForwardingError{Email: "a@x.com", StatusCode: 502}}
	id := seedInteraction(t, repo, "c1", "a@x.com", -time.Minute)
	svc := newDispatchService(repo, sender)

	require.NoError(t, svc.Sweep(context.Background()))
	assert.False(t, repo.rows[id].RetentlySent)
	assert.Equal(t, 0, sender.callCount())

	// Simulated outage over; the next sweep self-heals.
	sender.mu.Lock()
	sender.err = nil
	sender.mu.Unlock()

	require.NoError(t, svc.Sweep(context.Background()))
	assert.Equal(t, 1, sender.callCount())
	assert.True(t, repo.rows[id].RetentlySent)
}

func TestSweepFailureDoesNotAbortRemainingRows(t *testing.T) {
	repo := newMockRepo()
	seedInteraction(t, repo, "c1", "missing-name@x.com", -time.Minute)
	seedInteraction(t, repo, "c2", "b@x.com", -time.Minute)

	// Strip the email from the first row so it is skipped with a warning.
	repo.rows[1].InteractionData = nil
	repo.rows[1].RequesterEmail = ""

	sender := &mockSender{}
	require.NoError(t, newDispatchService(repo, sender).Sweep(context.Background()))

	require.Equal(t, 1, sender.callCount())
	assert.Equal(t, "b@x.com", sender.calls[0].Email)
	assert.False(t, repo.rows[1].RetentlySent)
	assert.True(t, repo.rows[2].RetentlySent)
}

func TestSweepStorageErrorAbortsSweep(t *testing.T) {
	repo := newMockRepo()
	repo.dueErr = appErrors.NewStorage("fetch due interactions", assert.AnError)
	sender := &mockSender{}

	err := newDispatchService(repo, sender).Sweep(context.Background())
	var storageErr *appErrors.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, 0, sender.callCount())
}

func TestSweepTestModeFiltersProductionCustomers(t *testing.T) {
	repo := newMockRepo()
	seedInteraction(t, repo, "c1", "qa+check@purdyandfigg.com", -time.Minute)
	seedInteraction(t, repo, "c2", "real.customer@gmail.com", -time.Minute)

	sender := &mockSender{}
	svc := newDispatchService(repo, sender)
	svc.TestMode = true
	svc.TestEmailFilter = "purdyandfigg.com"

	require.NoError(t, svc.Sweep(context.Background()))

	require.Equal(t, 1, sender.callCount())
	assert.Equal(t, "qa+check@purdyandfigg.com", sender.calls[0].Email)
	assert.True(t, repo.rows[1].RetentlySent)
	assert.False(t, repo.rows[2].RetentlySent)
}

func TestSweepFallsBackToEmailColumn(t *testing.T) {
	repo := newMockRepo()
	id := seedInteraction(t, repo, "c1", "a@x.com", -time.Minute)

	// Legacy row shape: payload without a requester object, email only in
	// the dedicated column.
	repo.rows[id].InteractionData = map[string]interface{}{"subject": "old"}
	repo.rows[id].RequesterEmail = "a@x.com"

	sender := &mockSender{}
	require.NoError(t, newDispatchService(repo, sender).Sweep(context.Background()))

	require.Equal(t, 1, sender.callCount())
	assert.Equal(t, "a@x.com", sender.calls[0].Email)
	assert.Equal(t, "", sender.calls[0].FirstName)
}
