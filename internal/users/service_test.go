package users

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peershare-backend/internal/platform/apperr"
	"peershare-backend/internal/platform/patch"
)

type fakeStore struct {
	users  map[int64]*User
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[int64]*User{}, nextID: 1}
}

func (f *fakeStore) GetByID(_ context.Context, userID int64) (*User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, apperr.NotFound("user with id %d not found", userID)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) emailTaken(email string, exceptID int64) bool {
	for _, u := range f.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (f *fakeStore) Insert(_ context.Context, u *User) (int64, error) {
	if f.emailTaken(u.Email, 0) {
		return 0, apperr.DataConflict("email %s is already in use", u.Email)
	}
	id := f.nextID
	f.nextID++
	cp := *u
	cp.ID = id
	f.users[id] = &cp
	return id, nil
}

func (f *fakeStore) Update(_ context.Context, u *User) error {
	if f.emailTaken(u.Email, u.ID) {
		return apperr.DataConflict("email %s is already in use", u.Email)
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, userID int64) error {
	if _, ok := f.users[userID]; !ok {
		return apperr.NotFound("user with id %d not found", userID)
	}
	delete(f.users, userID)
	return nil
}

func newTestService() (*Service, *fakeStore) {
	st := newFakeStore()
	return &Service{store: st}, st
}

func TestAdd(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.Add(context.Background(), CreateRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestAddDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Add(ctx, CreateRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.Add(ctx, CreateRequest{Name: "impostor", Email: "Alice@Example.com"})
	assert.True(t, apperr.IsCode(err, apperr.CodeDataConflict))
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	created, err := svc.Add(ctx, CreateRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.GetByID(ctx, 404)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	created, err := svc.Add(ctx, CreateRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	// name only: email stays
	got, err := svc.Update(ctx, created.ID, UpdateRequest{Name: patch.Of("alicia")})
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)

	// email only: name stays
	got, err = svc.Update(ctx, created.ID, UpdateRequest{Email: patch.Of("alicia@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.Name)
	assert.Equal(t, "alicia@example.com", got.Email)
	assert.Equal(t, "alicia@example.com", st.users[created.ID].Email)
}

func TestUpdateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Add(ctx, CreateRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := svc.Add(ctx, CreateRequest{Name: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob.ID, UpdateRequest{Email: patch.Of("alice@example.com")})
	assert.True(t, apperr.IsCode(err, apperr.CodeDataConflict))
}

func TestUpdateSameEmailKept(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	created, err := svc.Add(ctx, CreateRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, created.ID, UpdateRequest{Email: patch.Of("alice@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), 404, UpdateRequest{Name: patch.Of("ghost")})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()

	created, err := svc.Add(ctx, CreateRequest{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, st.users)

	err = svc.Delete(ctx, created.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}
