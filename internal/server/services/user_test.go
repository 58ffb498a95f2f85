package services

import (
	"context"
	"testing"

	"github.com/akash0382/ApniSec/internal/common"
	"github.com/akash0382/ApniSec/internal/server/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ann@x.io").User

	got, err := f.users.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = f.users.GetProfile(ctx, "missing")
	requireKind(t, err, common.ErrorNotFound, MsgUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ann@x.io").User

	got, err := f.users.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: strPtr("Ann"), Email: strPtr("ann@new.io")})
	require.NoError(t, err)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Ann", *got.Name)
	assert.Equal(t, "ann@new.io", got.Email)

	n := f.notifier.last()
	assert.Equal(t, notify.KindProfileUpdated, n.Kind)
	assert.Equal(t, "ann@new.io", n.To)
	assert.Equal(t, "Ann", n.Name)

	// keeping one's own email is not a conflict
	_, err = f.users.UpdateProfile(ctx, u.ID, UpdateProfileInput{Email: strPtr("ann@new.io")})
	require.NoError(t, err)
}

func TestUpdateProfile_EmailInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.io").User
	f.register(t, "b@x.io")

	_, err := f.users.UpdateProfile(ctx, a.ID, UpdateProfileInput{Email: strPtr("b@x.io")})
	requireKind(t, err, common.ErrorConflict, MsgEmailInUse)
	assert.Empty(t, f.notifier.kinds())
}

func TestUpdateProfile_ValidationAndMissingUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.UpdateProfile(ctx, "any", UpdateProfileInput{Name: strPtr(""), Email: strPtr("bad")})
	e := requireKind(t, err, common.ErrorValidation, "Validation failed")
	assert.Contains(t, e.Details, "name")
	assert.Contains(t, e.Details, "email")

	_, err = f.users.UpdateProfile(ctx, "missing", UpdateProfileInput{Name: strPtr("X")})
	requireKind(t, err, common.ErrorNotFound, MsgUserNotFound)
}
