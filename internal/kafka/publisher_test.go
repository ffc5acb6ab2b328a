package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Shravanik22/MediLink/internal/db"
	mock_database "github.com/Shravanik22/MediLink/internal/db/mocks"
	"github.com/Shravanik22/MediLink/internal/repository"
)

type fakeTaskRepo struct {
	tasks []*repository.OutboxTask

	fetchTx  db.Tx
	txMarks  []repository.TaskStatus
	poolMark repository.TaskStatus
	attempts int
	lastErr  *string
}

func (f *fakeTaskRepo) GetProcessableTasks(ctx context.Context, tx db.Tx, limit int) ([]*repository.OutboxTask, error) {
	f.fetchTx = tx
	return f.tasks, nil
}

func (f *fakeTaskRepo) UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	f.txMarks = append(f.txMarks, status)
	return nil
}

func (f *fakeTaskRepo) UpdateTaskStatus(ctx context.Context, database db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	f.poolMark = status
	f.attempts = attempts
	f.lastErr = lastError
	return nil
}

type recordingProducer struct {
	sent []string
	err  error
}

func (p *recordingProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, topic)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func TestProcessBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	config := PublisherConfig{PollInterval: time.Second, BatchSize: 10, MaxAttempts: 5}

	t.Run("fetches and marks inside one transaction then ships", func(t *testing.T) {
		t.Parallel()
		mc := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(mc)
		mockTx := mock_database.NewMockTx(mc)

		repo := &fakeTaskRepo{tasks: []*repository.OutboxTask{
			{ID: uuid.New(), Topic: "order_audit", Payload: []byte(`{}`)},
		}}
		producer := &recordingProducer{}
		publisher := NewPublisher(mockDB, repo, producer, config)

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

		require.NoError(t, publisher.processBatch(ctx))

		// The SKIP LOCKED select and the PROCESSING marks share the tx, so
		// the row locks cover the status change.
		assert.Same(t, mockTx, repo.fetchTx)
		assert.Equal(t, []repository.TaskStatus{repository.TaskStatusProcessing}, repo.txMarks)
		assert.Equal(t, []string{"order_audit"}, producer.sent)
		assert.Equal(t, repository.TaskStatusDone, repo.poolMark)
	})

	t.Run("empty batch just commits", func(t *testing.T) {
		t.Parallel()
		mc := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(mc)
		mockTx := mock_database.NewMockTx(mc)

		repo := &fakeTaskRepo{}
		publisher := NewPublisher(mockDB, repo, &recordingProducer{}, config)

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

		require.NoError(t, publisher.processBatch(ctx))
		assert.Empty(t, repo.txMarks)
	})

	t.Run("send failure bumps attempts and marks FAILED", func(t *testing.T) {
		t.Parallel()
		mc := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(mc)
		mockTx := mock_database.NewMockTx(mc)

		repo := &fakeTaskRepo{tasks: []*repository.OutboxTask{
			{ID: uuid.New(), Topic: "order_audit", Payload: []byte(`{}`), Attempts: 1},
		}}
		producer := &recordingProducer{err: errors.New("broker unreachable")}
		publisher := NewPublisher(mockDB, repo, producer, config)

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

		require.NoError(t, publisher.processBatch(ctx))

		assert.Equal(t, repository.TaskStatusFailed, repo.poolMark)
		assert.Equal(t, 2, repo.attempts)
		require.NotNil(t, repo.lastErr)
		assert.Equal(t, "broker unreachable", *repo.lastErr)
	})
}
