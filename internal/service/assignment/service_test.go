package assignment

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapolis/indicators-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockAssignmentRepo struct {
	BulkCreateFunc                     func(ctx context.Context, pairs []domain.AssignmentPair, attrs domain.GrantAttrs) (int, error)
	DeleteByIDsFunc                    func(ctx context.Context, ids []int64) (int, error)
	GetOwnerForUpdateFunc              func(ctx context.Context, indicatorID int64) (*domain.Assignment, error)
	GetByUserAndIndicatorForUpdateFunc func(ctx context.Context, userID, indicatorID int64) (*domain.Assignment, error)
	SetOwnerFlagFunc                   func(ctx context.Context, id int64, isOwner bool, updatedBy int64) error
	IsUserAssignedFunc                 func(ctx context.Context, userID, indicatorID int64) (bool, error)
	ListByIndicatorFunc                func(ctx context.Context, indicatorID int64, limit, offset int) ([]domain.AssignmentWithUser, int, error)
	ListUnassignedUsersFunc            func(ctx context.Context, indicatorID int64) ([]domain.User, error)

	bulkCreateCalls   []bulkCreateCall
	setOwnerFlagCalls []setOwnerFlagCall
}

type bulkCreateCall struct {
	Pairs []domain.AssignmentPair
	Attrs domain.GrantAttrs
}

type setOwnerFlagCall struct {
	ID        int64
	IsOwner   bool
	UpdatedBy int64
}

func (m *mockAssignmentRepo) BulkCreate(ctx context.Context, pairs []domain.AssignmentPair, attrs domain.GrantAttrs) (int, error) {
	m.bulkCreateCalls = append(m.bulkCreateCalls, bulkCreateCall{Pairs: pairs, Attrs: attrs})
	return m.BulkCreateFunc(ctx, pairs, attrs)
}

func (m *mockAssignmentRepo) DeleteByIDs(ctx context.Context, ids []int64) (int, error) {
	return m.DeleteByIDsFunc(ctx, ids)
}

func (m *mockAssignmentRepo) GetOwnerForUpdate(ctx context.Context, indicatorID int64) (*domain.Assignment, error) {
	return m.GetOwnerForUpdateFunc(ctx, indicatorID)
}

func (m *mockAssignmentRepo) GetByUserAndIndicatorForUpdate(ctx context.Context, userID, indicatorID int64) (*domain.Assignment, error) {
	return m.GetByUserAndIndicatorForUpdateFunc(ctx, userID, indicatorID)
}

func (m *mockAssignmentRepo) SetOwnerFlag(ctx context.Context, id int64, isOwner bool, updatedBy int64) error {
	m.setOwnerFlagCalls = append(m.setOwnerFlagCalls, setOwnerFlagCall{ID: id, IsOwner: isOwner, UpdatedBy: updatedBy})
	return m.SetOwnerFlagFunc(ctx, id, isOwner, updatedBy)
}

func (m *mockAssignmentRepo) IsUserAssigned(ctx context.Context, userID, indicatorID int64) (bool, error) {
	return m.IsUserAssignedFunc(ctx, userID, indicatorID)
}

func (m *mockAssignmentRepo) ListByIndicator(ctx context.Context, indicatorID int64, limit, offset int) ([]domain.AssignmentWithUser, int, error) {
	return m.ListByIndicatorFunc(ctx, indicatorID, limit, offset)
}

func (m *mockAssignmentRepo) ListUnassignedUsers(ctx context.Context, indicatorID int64) ([]domain.User, error) {
	return m.ListUnassignedUsersFunc(ctx, indicatorID)
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	// Default: pass-through (no real transaction).
	return fn(ctx)
}

func newTestService(repo *mockAssignmentRepo) *Service {
	return NewService(slog.Default(), repo, &mockTxManager{})
}

// ---------------------------------------------------------------------------
// Grant tests
// ---------------------------------------------------------------------------

func TestGrant_CrossProduct(t *testing.T) {
	t.Parallel()

	repo := &mockAssignmentRepo{
		BulkCreateFunc: func(_ context.Context, pairs []domain.AssignmentPair, _ domain.GrantAttrs) (int, error) {
			return len(pairs), nil
		},
	}
	svc := newTestService(repo)

	err := svc.Grant(context.Background(), GrantInput{
		UserIDs:      []int64{1, 2},
		IndicatorIDs: []int64{10, 20, 30},
		ActingUserID: 99,
	})
	require.NoError(t, err)

	require.Len(t, repo.bulkCreateCalls, 1)
	call := repo.bulkCreateCalls[0]
	assert.Len(t, call.Pairs, 6)
	assert.Contains(t, call.Pairs, domain.AssignmentPair{UserID: 2, IndicatorID: 30})
	assert.False(t, call.Attrs.IsOwner)
	assert.Equal(t, int64(99), call.Attrs.CreatedBy)
}

func TestGrant_EmptyInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockAssignmentRepo{})

	err := svc.Grant(context.Background(), GrantInput{ActingUserID: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGrant_RepoError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection lost")
	repo := &mockAssignmentRepo{
		BulkCreateFunc: func(_ context.Context, _ []domain.AssignmentPair, _ domain.GrantAttrs) (int, error) {
			return 0, cause
		},
	}
	svc := newTestService(repo)

	err := svc.Grant(context.Background(), GrantInput{
		UserIDs:      []int64{1},
		IndicatorIDs: []int64{10},
		ActingUserID: 99,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestAssignCreatorAsOwner(t *testing.T) {
	t.Parallel()

	repo := &mockAssignmentRepo{
		BulkCreateFunc: func(_ context.Context, pairs []domain.AssignmentPair, _ domain.GrantAttrs) (int, error) {
			return len(pairs), nil
		},
	}
	svc := newTestService(repo)

	err := svc.AssignCreatorAsOwner(context.Background(), 7, 42)
	require.NoError(t, err)

	require.Len(t, repo.bulkCreateCalls, 1)
	call := repo.bulkCreateCalls[0]
	assert.Equal(t, []domain.AssignmentPair{{UserID: 7, IndicatorID: 42}}, call.Pairs)
	assert.True(t, call.Attrs.IsOwner)
	assert.Equal(t, int64(7), call.Attrs.CreatedBy)
}

// ---------------------------------------------------------------------------
// Revoke tests
// ---------------------------------------------------------------------------

func TestRevoke(t *testing.T) {
	t.Parallel()

	var gotIDs []int64
	repo := &mockAssignmentRepo{
		DeleteByIDsFunc: func(_ context.Context, ids []int64) (int, error) {
			gotIDs = ids
			return len(ids), nil
		},
	}
	svc := newTestService(repo)

	err := svc.Revoke(context.Background(), RevokeInput{AssignmentIDs: []int64{3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, gotIDs)
}

func TestRevoke_EmptyInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockAssignmentRepo{})

	err := svc.Revoke(context.Background(), RevokeInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---------------------------------------------------------------------------
// TransferOwnership tests
// ---------------------------------------------------------------------------

func TestTransferOwnership_PromotesExistingAssignment(t *testing.T) {
	t.Parallel()

	repo := &mockAssignmentRepo{
		GetOwnerForUpdateFunc: func(_ context.Context, indicatorID int64) (*domain.Assignment, error) {
			return &domain.Assignment{ID: 100, UserID: 1, IndicatorID: indicatorID, IsOwner: true}, nil
		},
		GetByUserAndIndicatorForUpdateFunc: func(_ context.Context, userID, indicatorID int64) (*domain.Assignment, error) {
			return &domain.Assignment{ID: 200, UserID: userID, IndicatorID: indicatorID}, nil
		},
		SetOwnerFlagFunc: func(_ context.Context, _ int64, _ bool, _ int64) error {
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.TransferOwnership(context.Background(), TransferOwnershipInput{
		NewOwnerUserID: 2,
		IndicatorID:    42,
		ActingUserID:   9,
	})
	require.NoError(t, err)

	// Demote then promote, no insert.
	require.Len(t, repo.setOwnerFlagCalls, 2)
	assert.Equal(t, setOwnerFlagCall{ID: 100, IsOwner: false, UpdatedBy: 9}, repo.setOwnerFlagCalls[0])
	assert.Equal(t, setOwnerFlagCall{ID: 200, IsOwner: true, UpdatedBy: 9}, repo.setOwnerFlagCalls[1])
	assert.Empty(t, repo.bulkCreateCalls)
}

func TestTransferOwnership_CreatesOwnerAssignment(t *testing.T) {
	t.Parallel()

	repo := &mockAssignmentRepo{
		GetOwnerForUpdateFunc: func(_ context.Context, indicatorID int64) (*domain.Assignment, error) {
			return &domain.Assignment{ID: 100, UserID: 1, IndicatorID: indicatorID, IsOwner: true}, nil
		},
		GetByUserAndIndicatorForUpdateFunc: func(_ context.Context, _, _ int64) (*domain.Assignment, error) {
			return nil, domain.ErrNotFound
		},
		SetOwnerFlagFunc: func(_ context.Context, _ int64, _ bool, _ int64) error {
			return nil
		},
		BulkCreateFunc: func(_ context.Context, pairs []domain.AssignmentPair, _ domain.GrantAttrs) (int, error) {
			return len(pairs), nil
		},
	}
	svc := newTestService(repo)

	err := svc.TransferOwnership(context.Background(), TransferOwnershipInput{
		NewOwnerUserID: 2,
		IndicatorID:    42,
		ActingUserID:   9,
	})
	require.NoError(t, err)

	require.Len(t, repo.setOwnerFlagCalls, 1) // demote only
	require.Len(t, repo.bulkCreateCalls, 1)
	call := repo.bulkCreateCalls[0]
	assert.Equal(t, []domain.AssignmentPair{{UserID: 2, IndicatorID: 42}}, call.Pairs)
	assert.True(t, call.Attrs.IsOwner)
}

func TestTransferOwnership_NoOpWhenAlreadyOwner(t *testing.T) {
	t.Parallel()

	repo := &mockAssignmentRepo{
		GetOwnerForUpdateFunc: func(_ context.Context, indicatorID int64) (*domain.Assignment, error) {
			return &domain.Assignment{ID: 100, UserID: 2, IndicatorID: indicatorID, IsOwner: true}, nil
		},
	}
	svc := newTestService(repo)

	err := svc.TransferOwnership(context.Background(), TransferOwnershipInput{
		NewOwnerUserID: 2,
		IndicatorID:    42,
		ActingUserID:   9,
	})
	require.NoError(t, err)
	assert.Empty(t, repo.setOwnerFlagCalls)
	assert.Empty(t, repo.bulkCreateCalls)
}

func TestTransferOwnership_OwnerNotFound(t *testing.T) {
	t.Parallel()

	repo := &mockAssignmentRepo{
		GetOwnerForUpdateFunc: func(_ context.Context, indicatorID int64) (*domain.Assignment, error) {
			return nil, domain.ErrOwnerNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.TransferOwnership(context.Background(), TransferOwnershipInput{
		NewOwnerUserID: 2,
		IndicatorID:    42,
		ActingUserID:   9,
	})
	assert.ErrorIs(t, err, domain.ErrOwnerNotFound)
}

func TestTransferOwnership_RetriesOwnerReadAfterLostRace(t *testing.T) {
	t.Parallel()

	// A concurrent transfer committed while this one waited on the owner
	// row lock: the first read misses because the flag moved to a row its
	// snapshot never contained, the second read sees the committed owner.
	var reads int
	repo := &mockAssignmentRepo{
		GetOwnerForUpdateFunc: func(_ context.Context, indicatorID int64) (*domain.Assignment, error) {
			reads++
			if reads == 1 {
				return nil, domain.ErrOwnerNotFound
			}
			return &domain.Assignment{ID: 150, UserID: 5, IndicatorID: indicatorID, IsOwner: true}, nil
		},
		GetByUserAndIndicatorForUpdateFunc: func(_ context.Context, _, _ int64) (*domain.Assignment, error) {
			return nil, domain.ErrNotFound
		},
		SetOwnerFlagFunc: func(_ context.Context, _ int64, _ bool, _ int64) error {
			return nil
		},
		BulkCreateFunc: func(_ context.Context, pairs []domain.AssignmentPair, _ domain.GrantAttrs) (int, error) {
			return len(pairs), nil
		},
	}
	svc := newTestService(repo)

	err := svc.TransferOwnership(context.Background(), TransferOwnershipInput{
		NewOwnerUserID: 2,
		IndicatorID:    42,
		ActingUserID:   9,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, reads)
	require.Len(t, repo.setOwnerFlagCalls, 1)
	assert.Equal(t, setOwnerFlagCall{ID: 150, IsOwner: false, UpdatedBy: 9}, repo.setOwnerFlagCalls[0])
	require.Len(t, repo.bulkCreateCalls, 1)
	assert.True(t, repo.bulkCreateCalls[0].Attrs.IsOwner)
}

func TestTransferOwnership_RollsBackOnPromoteFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("write failed")
	repo := &mockAssignmentRepo{
		GetOwnerForUpdateFunc: func(_ context.Context, indicatorID int64) (*domain.Assignment, error) {
			return &domain.Assignment{ID: 100, UserID: 1, IndicatorID: indicatorID, IsOwner: true}, nil
		},
		GetByUserAndIndicatorForUpdateFunc: func(_ context.Context, userID, indicatorID int64) (*domain.Assignment, error) {
			return &domain.Assignment{ID: 200, UserID: userID, IndicatorID: indicatorID}, nil
		},
		SetOwnerFlagFunc: func(_ context.Context, id int64, isOwner bool, _ int64) error {
			if isOwner {
				return cause
			}
			return nil
		},
	}

	var txErr error
	tx := &mockTxManager{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			txErr = fn(ctx)
			return txErr
		},
	}
	svc := NewService(slog.Default(), repo, tx)

	err := svc.TransferOwnership(context.Background(), TransferOwnershipInput{
		NewOwnerUserID: 2,
		IndicatorID:    42,
		ActingUserID:   9,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	// The transaction callback itself failed, so the demote is rolled back
	// together with the promote.
	assert.ErrorIs(t, txErr, cause)
}

// ---------------------------------------------------------------------------
// Read tests
// ---------------------------------------------------------------------------

func TestListByIndicator_Defaults(t *testing.T) {
	t.Parallel()

	var gotLimit, gotOffset int
	repo := &mockAssignmentRepo{
		ListByIndicatorFunc: func(_ context.Context, _ int64, limit, offset int) ([]domain.AssignmentWithUser, int, error) {
			gotLimit, gotOffset = limit, offset
			return []domain.AssignmentWithUser{}, 0, nil
		},
	}
	svc := newTestService(repo)

	_, _, err := svc.ListByIndicator(context.Background(), ListByIndicatorInput{IndicatorID: 42})
	require.NoError(t, err)
	assert.Equal(t, defaultPerPage, gotLimit)
	assert.Equal(t, 0, gotOffset)
}

func TestListByIndicator_Paging(t *testing.T) {
	t.Parallel()

	var gotLimit, gotOffset int
	repo := &mockAssignmentRepo{
		ListByIndicatorFunc: func(_ context.Context, _ int64, limit, offset int) ([]domain.AssignmentWithUser, int, error) {
			gotLimit, gotOffset = limit, offset
			return []domain.AssignmentWithUser{}, 57, nil
		},
	}
	svc := newTestService(repo)

	_, total, err := svc.ListByIndicator(context.Background(), ListByIndicatorInput{
		IndicatorID: 42,
		Page:        3,
		PerPage:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, 57, total)
}

func TestIsUserAssigned_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockAssignmentRepo{})

	_, err := svc.IsUserAssigned(context.Background(), 0, 42)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
