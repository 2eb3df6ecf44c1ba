package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func storedTask(id uuid.UUID, text string, completed bool) *task.Task {
	now := time.Now().UTC()
	return task.RehydrateTask(id, text, completed, 2, now, now)
}

func TestUpdateTaskHandler_Handle_Success(t *testing.T) {
	store := new(mockStore)
	publisher := new(mockPublisher)
	handler := NewUpdateTaskHandler(store, publisher, nil)

	ctx := context.Background()
	id := uuid.New()
	normalized := task.Changes{Text: strPtr("renamed"), Completed: boolPtr(true)}

	store.On("Update", ctx, id, normalized).Return(storedTask(id, "renamed", true), nil)
	publisher.On("Publish", ctx, task.RoutingKeyUpdated, mock.MatchedBy(func(body []byte) bool {
		return strings.Contains(string(body), `"fields":["task","completed"]`)
	})).Return(nil)

	dto, err := handler.Handle(ctx, UpdateTaskCommand{
		TaskID:    id,
		Task:      strPtr("  renamed "),
		Completed: boolPtr(true),
	})

	require.NoError(t, err)
	assert.Equal(t, id, dto.ID)
	assert.Equal(t, "renamed", dto.Task)
	assert.True(t, dto.Completed)
	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUpdateTaskHandler_Handle_EmptyUpdateIsNoop(t *testing.T) {
	store := new(mockStore)
	publisher := new(mockPublisher)
	handler := NewUpdateTaskHandler(store, publisher, nil)

	ctx := context.Background()
	id := uuid.New()
	store.On("Update", ctx, id, task.Changes{}).Return(storedTask(id, "unchanged", false), nil)

	dto, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: id})

	require.NoError(t, err)
	assert.Equal(t, "unchanged", dto.Task)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateTaskHandler_Handle_EmptyText(t *testing.T) {
	store := new(mockStore)
	handler := NewUpdateTaskHandler(store, new(mockPublisher), nil)

	_, err := handler.Handle(context.Background(), UpdateTaskCommand{TaskID: uuid.New(), Task: strPtr("\t")})

	assert.True(t, task.IsValidation(err))
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateTaskHandler_Handle_NotFound(t *testing.T) {
	store := new(mockStore)
	publisher := new(mockPublisher)
	handler := NewUpdateTaskHandler(store, publisher, nil)

	ctx := context.Background()
	id := uuid.New()
	store.On("Update", ctx, id, mock.Anything).Return(nil, task.ErrTaskNotFound)

	_, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: id, Completed: boolPtr(true)})

	assert.True(t, task.IsNotFound(err))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}
