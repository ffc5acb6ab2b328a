package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/Shravanik22/MediLink/internal/db/mocks"
	"github.com/Shravanik22/MediLink/internal/repository"
)

func TestOutboxTaskRepoGetProcessableTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewOutboxTaskRepo()

	t.Run("selects on the supplied transaction", func(t *testing.T) {
		t.Parallel()
		mc := gomock.NewController(t)
		mockTx := mock_database.NewMockTx(mc)

		want := []*repository.OutboxTask{{ID: uuid.New(), Topic: "order_audit"}}
		mockTx.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(),
				repository.TaskStatusCreated, repository.TaskStatusFailed, 5, 10).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*(dest.(*[]*repository.OutboxTask)) = want
				return nil
			})

		tasks, err := repo.GetProcessableTasks(ctx, mockTx, 10)
		require.NoError(t, err)
		assert.Equal(t, want, tasks)
	})

	t.Run("wraps query errors", func(t *testing.T) {
		t.Parallel()
		mc := gomock.NewController(t)
		mockTx := mock_database.NewMockTx(mc)

		mockTx.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("connection reset"))

		tasks, err := repo.GetProcessableTasks(ctx, mockTx, 10)
		assert.Nil(t, tasks)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestOutboxTaskRepoUpdateTaskStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewOutboxTaskRepo()
	id := uuid.New()

	t.Run("marks done with completion time", func(t *testing.T) {
		t.Parallel()
		mc := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(mc)

		now := time.Now().UTC()
		mockDB.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				id, repository.TaskStatusDone, 0, nil, &now, gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		err := repo.UpdateTaskStatus(ctx, mockDB, id, repository.TaskStatusDone, 0, nil, &now)
		assert.NoError(t, err)
	})

	t.Run("missing task reports not found", func(t *testing.T) {
		t.Parallel()
		mc := gomock.NewController(t)
		mockTx := mock_database.NewMockTx(mc)

		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				id, repository.TaskStatusProcessing, 0, nil, nil, gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.UpdateTaskStatusTx(ctx, mockTx, id, repository.TaskStatusProcessing, 0, nil, nil)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}
