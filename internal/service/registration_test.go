package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/identops/identity-server/internal/mocks"
	"github.com/identops/identity-server/internal/model"
	"github.com/identops/identity-server/internal/testutil"
)

func TestRegistration_Register_FreshEmail(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	hasher := &mocks.Hasher{}
	tokens := &mocks.TokenIssuer{}
	notifier := &mocks.Notifier{}

	saved := model.User{ID: uuid.New(), Name: "Ana", Email: "ana@x.com", PasswordHash: "$hashed"}
	users.On("GetByEmail", mock.Anything, "ana@x.com").Return(model.User{}, model.ErrNotFound)
	hasher.On("Hash", "p1").Return("$hashed", nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "ana@x.com" && u.Name == "Ana" && u.PasswordHash == "$hashed" && u.ID != uuid.Nil
	})).Return(saved, nil)
	tokens.On("IssueStandard", saved.ID).Return("tok", nil)

	r := NewRegistration(users, hasher, tokens, notifier, testutil.MakeNoopLogger())

	user, token, err := r.Register(ctx, RegisterParams{Name: "Ana", Email: "ana@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, saved, user)
	users.AssertNumberOfCalls(t, "Create", 1)
}

func TestRegistration_Register_EmailTaken(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	hasher := &mocks.Hasher{}
	tokens := &mocks.TokenIssuer{}
	notifier := &mocks.Notifier{}

	users.On("GetByEmail", mock.Anything, "ana@x.com").Return(model.User{ID: uuid.New(), Email: "ana@x.com"}, nil)

	r := NewRegistration(users, hasher, tokens, notifier, testutil.MakeNoopLogger())

	_, _, err := r.Register(ctx, RegisterParams{Name: "Ana", Email: "ana@x.com", Password: "p1"})
	require.ErrorIs(t, err, model.ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistration_Register_ConflictOnInsert(t *testing.T) {
	// Two concurrent registrations can both pass the existence check. The
	// store's uniqueness constraint decides, and the loser sees a plain
	// conflict rather than an internal fault.
	ctx := context.Background()
	users := &mocks.UserStore{}
	hasher := &mocks.Hasher{}
	tokens := &mocks.TokenIssuer{}
	notifier := &mocks.Notifier{}

	users.On("GetByEmail", mock.Anything, "ana@x.com").Return(model.User{}, model.ErrNotFound)
	hasher.On("Hash", "p1").Return("$hashed", nil)
	users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrEmailTaken)

	r := NewRegistration(users, hasher, tokens, notifier, testutil.MakeNoopLogger())

	_, _, err := r.Register(ctx, RegisterParams{Name: "Ana", Email: "ana@x.com", Password: "p1"})
	require.ErrorIs(t, err, model.ErrEmailTaken)
	tokens.AssertNotCalled(t, "IssueStandard", mock.Anything)
}

func TestRegistration_Register_HashFault(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	hasher := &mocks.Hasher{}
	tokens := &mocks.TokenIssuer{}
	notifier := &mocks.Notifier{}

	users.On("GetByEmail", mock.Anything, "ana@x.com").Return(model.User{}, model.ErrNotFound)
	hasher.On("Hash", "p1").Return("", model.ErrHashingFailed)

	r := NewRegistration(users, hasher, tokens, notifier, testutil.MakeNoopLogger())

	_, _, err := r.Register(ctx, RegisterParams{Name: "Ana", Email: "ana@x.com", Password: "p1"})
	require.ErrorIs(t, err, model.ErrHashingFailed)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistration_RegisterByAdmin_SendsCredentials(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	hasher := &mocks.Hasher{}
	tokens := &mocks.TokenIssuer{}
	notifier := &mocks.Notifier{}

	saved := model.User{ID: uuid.New(), Name: "Bob", Email: "bob@x.com", PasswordHash: "$hashed"}
	users.On("GetByEmail", mock.Anything, "bob@x.com").Return(model.User{}, model.ErrNotFound)
	hasher.On("Hash", "p2").Return("$hashed", nil)
	users.On("Create", mock.Anything, mock.Anything).Return(saved, nil)
	tokens.On("IssueStandard", saved.ID).Return("tok", nil)

	sent := make(chan struct{})
	notifier.On("Send", mock.Anything, "bob@x.com", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(sent) }).
		Return(nil)

	r := NewRegistration(users, hasher, tokens, notifier, testutil.MakeNoopLogger())

	_, token, err := r.RegisterByAdmin(ctx, RegisterParams{Name: "Bob", Email: "bob@x.com", Password: "p2"})
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("credential notification was not sent")
	}
}

func TestRegistration_RegisterByAdmin_NotifierFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	hasher := &mocks.Hasher{}
	tokens := &mocks.TokenIssuer{}
	notifier := &mocks.Notifier{}

	saved := model.User{ID: uuid.New(), Name: "Bob", Email: "bob@x.com", PasswordHash: "$hashed"}
	users.On("GetByEmail", mock.Anything, "bob@x.com").Return(model.User{}, model.ErrNotFound)
	hasher.On("Hash", "p2").Return("$hashed", nil)
	users.On("Create", mock.Anything, mock.Anything).Return(saved, nil)
	tokens.On("IssueStandard", saved.ID).Return("tok", nil)

	var wg sync.WaitGroup
	wg.Add(1)
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { wg.Done() }).
		Return(assert.AnError)

	r := NewRegistration(users, hasher, tokens, notifier, testutil.MakeNoopLogger())

	_, _, err := r.RegisterByAdmin(ctx, RegisterParams{Name: "Bob", Email: "bob@x.com", Password: "p2"})
	require.NoError(t, err)
	wg.Wait()
}
