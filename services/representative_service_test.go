package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/utils"
)

func TestCreateRepresentativeDefaults(t *testing.T) {
	f := newFixture(t)

	user, err := f.reps.Create(f.ctx, &models.CreateUserRequest{
		Username: "jsmith",
		Password: "secret1",
		Email:    "J.Smith@Example.com",
		FullName: "John Smith",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleRepresentative, user.Role)
	assert.Equal(t, "10.00", user.CommissionRate.String())
	assert.Equal(t, "j.smith@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.Nil(t, user.UplineID)
	assert.NotEqual(t, "secret1", user.Password)
	assert.True(t, utils.CheckPassword(user.Password, "secret1"))
	assert.Equal(t, []string{models.EventRepresentativeCreated}, f.pub.Types())
}

func TestCreateRepresentativeValidation(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "boss", models.RoleAdmin, "0", nil)
	sponsor := f.rep(t, "sponsor", "10", nil)
	missing := "missing"

	tests := []struct {
		name string
		req  models.CreateUserRequest
		want error
	}{
		{"unknown sponsor", models.CreateUserRequest{UplineID: &missing}, ErrSponsorNotFound},
		{"admin sponsor", models.CreateUserRequest{UplineID: &admin.ID}, ErrSponsorNotEligible},
		{"rate above 100", models.CreateUserRequest{CommissionRate: money("100.01")}, ErrInvalidRate},
		{"negative rate", models.CreateUserRequest{CommissionRate: money("-1")}, ErrInvalidRate},
		{"duplicate username", models.CreateUserRequest{Username: "sponsor"}, ErrUsernameTaken},
		{"duplicate email", models.CreateUserRequest{Email: "SPONSOR@example.com"}, ErrUsernameTaken},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if req.Username == "" {
				req.Username = "user" + string(rune('a'+i))
			}
			if req.Email == "" {
				req.Email = req.Username + "@new.test"
			}
			req.Password = "secret1"
			req.FullName = "Someone"
			_, err := f.reps.Create(f.ctx, &req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	user, err := f.reps.Create(f.ctx, &models.CreateUserRequest{
		Username: "downline",
		Password: "secret1",
		Email:    "downline@new.test",
		FullName: "Down Line",
		UplineID: &sponsor.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, user.UplineID)
	assert.Equal(t, sponsor.ID, *user.UplineID)
}

func TestUpdateRepresentativeRejectsCycles(t *testing.T) {
	f := newFixture(t)
	a := f.rep(t, "a", "10", nil)
	b := f.rep(t, "b", "10", a)
	c := f.rep(t, "c", "10", b)

	tests := []struct {
		name    string
		user    *models.User
		sponsor string
	}{
		{"self", a, a.ID},
		{"direct child", a, b.ID},
		{"grandchild", a, c.ID},
		{"child of child", b, c.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sponsor := tt.sponsor
			_, err := f.reps.Update(f.ctx, tt.user.ID, &models.UpdateUserRequest{UplineID: &sponsor})
			assert.ErrorIs(t, err, ErrSponsorCycle)
		})
	}

	stored, err := f.store.GetUser(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.UplineID)
}

func TestUpdateRepresentativeMovesAndDetaches(t *testing.T) {
	f := newFixture(t)
	a := f.rep(t, "a", "10", nil)
	b := f.rep(t, "b", "10", a)
	c := f.rep(t, "c", "10", b)
	d := f.rep(t, "d", "10", nil)

	updated, err := f.reps.Update(f.ctx, c.ID, &models.UpdateUserRequest{UplineID: &d.ID})
	require.NoError(t, err)
	assert.Equal(t, d.ID, *updated.UplineID)

	// a can now sit under c since c left a's downline.
	_, err = f.reps.Update(f.ctx, a.ID, &models.UpdateUserRequest{UplineID: &c.ID})
	require.NoError(t, err)

	updated, err = f.reps.Update(f.ctx, a.ID, &models.UpdateUserRequest{ClearUpline: true})
	require.NoError(t, err)
	assert.Nil(t, updated.UplineID)
}

func TestUpdateRepresentativeFields(t *testing.T) {
	f := newFixture(t)
	a := f.rep(t, "a", "10", nil)

	rate := models.MustMoney("12.5")
	name := "Alice A."
	password := "newpass1"
	inactive := false
	updated, err := f.reps.Update(f.ctx, a.ID, &models.UpdateUserRequest{
		FullName:       &name,
		CommissionRate: &rate,
		Password:       &password,
		IsActive:       &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.FullName)
	assert.Equal(t, "12.50", updated.CommissionRate.String())
	assert.False(t, updated.IsActive)
	assert.True(t, utils.CheckPassword(updated.Password, "newpass1"))

	_, err = f.reps.Update(f.ctx, "nope", &models.UpdateUserRequest{FullName: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteRepresentative(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "boss", models.RoleAdmin, "0", nil)
	a := f.rep(t, "a", "10", nil)

	assert.ErrorIs(t, f.reps.Delete(f.ctx, admin.ID, admin.ID), ErrCannotDeleteSelf)
	require.NoError(t, f.reps.Delete(f.ctx, admin.ID, a.ID))
	assert.ErrorIs(t, f.reps.Delete(f.ctx, admin.ID, a.ID), ErrUserNotFound)

	_, err := f.reps.Get(f.ctx, a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
