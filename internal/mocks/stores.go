package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/trashtdl/todosync-server/internal/model"
)

// AccountStore is a testify mock of model.AccountStore.
type AccountStore struct {
	mock.Mock
}

func (m *AccountStore) GetBySubject(ctx context.Context, subject string) (model.Account, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) Create(ctx context.Context, account model.Account) (model.Account, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(model.Account), args.Error(1)
}

// SignupStore is a testify mock of model.SignupStore.
type SignupStore struct {
	mock.Mock
}

func (m *SignupStore) Create(ctx context.Context, pending model.PendingRegistration) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *SignupStore) GetByCode(ctx context.Context, code string) (model.PendingRegistration, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.PendingRegistration), args.Error(1)
}

func (m *SignupStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SignupStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *SignupStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// TaskStore is a testify mock of model.TaskStore.
type TaskStore struct {
	mock.Mock
}

func (m *TaskStore) ReadTaskState(ctx context.Context, accountID uuid.UUID, entityID string) (model.TaskState, error) {
	args := m.Called(ctx, accountID, entityID)
	return args.Get(0).(model.TaskState), args.Error(1)
}

func (m *TaskStore) ListTaskStates(ctx context.Context, accountID uuid.UUID) ([]model.TaskState, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaskState), args.Error(1)
}

func (m *TaskStore) HasAppliedCommand(ctx context.Context, accountID uuid.UUID, commandID string) (bool, error) {
	args := m.Called(ctx, accountID, commandID)
	return args.Bool(0), args.Error(1)
}

func (m *TaskStore) ApplyBatch(ctx context.Context, accountID uuid.UUID, mutations []model.TaskMutation, commandIDs []string) error {
	args := m.Called(ctx, accountID, mutations, commandIDs)
	return args.Error(0)
}
