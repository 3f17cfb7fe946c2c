package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/identops/identity-server/internal/mocks"
	"github.com/identops/identity-server/internal/model"
	"github.com/identops/identity-server/internal/testutil"
)

func TestUsers_List(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	storage := &mocks.Storage{}

	all := []model.User{{ID: uuid.New()}, {ID: uuid.New()}}
	users.On("List", mock.Anything).Return(all, nil)

	u := NewUsers(users, storage, testutil.MakeNoopLogger())

	got, err := u.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, got)
}

func TestUsers_Update_Patch(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	storage := &mocks.Storage{}

	id := uuid.New()
	name := "New Name"
	updated := model.User{ID: id, Name: name}
	users.On("Update", mock.Anything, id, model.UserPatch{Name: &name}).Return(updated, nil)

	u := NewUsers(users, storage, testutil.MakeNoopLogger())

	got, err := u.Update(ctx, id, model.UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUsers_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	storage := &mocks.Storage{}

	id := uuid.New()
	users.On("Update", mock.Anything, id, mock.Anything).Return(model.User{}, model.ErrNotFound)

	u := NewUsers(users, storage, testutil.MakeNoopLogger())

	_, err := u.Update(ctx, id, model.UserPatch{})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUsers_Update_EmailConflict(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	storage := &mocks.Storage{}

	id := uuid.New()
	email := "taken@x.com"
	users.On("Update", mock.Anything, id, model.UserPatch{Email: &email}).Return(model.User{}, model.ErrEmailTaken)

	u := NewUsers(users, storage, testutil.MakeNoopLogger())

	_, err := u.Update(ctx, id, model.UserPatch{Email: &email})
	require.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestUsers_Delete_RemovesStoredAvatar(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	storage := &mocks.Storage{}

	id := uuid.New()
	key := "avatars/" + id.String() + ".png"
	users.On("GetByID", mock.Anything, id).Return(model.User{ID: id, ProfileImage: key}, nil)
	users.On("Delete", mock.Anything, id).Return(nil)
	storage.On("Delete", mock.Anything, key).Return(nil)

	u := NewUsers(users, storage, testutil.MakeNoopLogger())

	require.NoError(t, u.Delete(ctx, id))
	storage.AssertCalled(t, "Delete", mock.Anything, key)
}

func TestUsers_Delete_ExternalAvatarLeftAlone(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	storage := &mocks.Storage{}

	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(model.User{ID: id, ProfileImage: "https://example.com/a.png"}, nil)
	users.On("Delete", mock.Anything, id).Return(nil)

	u := NewUsers(users, storage, testutil.MakeNoopLogger())

	require.NoError(t, u.Delete(ctx, id))
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUsers_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	storage := &mocks.Storage{}

	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(model.User{}, model.ErrNotFound)

	u := NewUsers(users, storage, testutil.MakeNoopLogger())

	require.ErrorIs(t, u.Delete(ctx, id), model.ErrNotFound)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUsers_SetProfileImage(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	storage := &mocks.Storage{}

	id := uuid.New()
	key := "avatars/" + id.String() + ".png"
	reader := strings.NewReader("image-bytes")

	users.On("GetByID", mock.Anything, id).Return(model.User{ID: id}, nil)
	storage.On("Upload", mock.Anything, key, reader).Return(nil)
	users.On("Update", mock.Anything, id, model.UserPatch{ProfileImage: &key}).Return(model.User{ID: id, ProfileImage: key}, nil)

	u := NewUsers(users, storage, testutil.MakeNoopLogger())

	got, err := u.SetProfileImage(ctx, id, "avatar.png", reader)
	require.NoError(t, err)
	assert.Equal(t, key, got.ProfileImage)
}

func TestUsers_SetProfileImage_UploadFault(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	storage := &mocks.Storage{}

	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(model.User{ID: id}, nil)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	u := NewUsers(users, storage, testutil.MakeNoopLogger())

	_, err := u.SetProfileImage(ctx, id, "avatar.png", strings.NewReader("x"))
	require.ErrorIs(t, err, model.ErrInternal)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
