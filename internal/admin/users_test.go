package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/punch/internal/models"
)

func TestAddUser(t *testing.T) {
	aux := &fakeAux{}
	users := NewUsers(aux, nil)
	users.now = func() time.Time { return time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC) }

	u, err := users.Add(context.Background(), models.User{Email: "bo@example.com", Name: "Bo", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Empty(t, u.Password, "password is not kept")
	assert.Equal(t, "1/6/2026", u.CreatedAt)
	assert.NotEmpty(t, u.RecordID)

	require.Len(t, aux.registered, 1)
	assert.Equal(t, "pw", aux.registered[0].Password)
}

func TestAddUserValidation(t *testing.T) {
	aux := &fakeAux{}
	users := NewUsers(aux, nil)

	var verr *models.ValidationError
	_, err := users.Add(context.Background(), models.User{Email: "not-an-email", Name: "Bo", Password: "pw"})
	require.ErrorAs(t, err, &verr)

	_, err = users.Add(context.Background(), models.User{Email: "bo@example.com", Name: "Bo"})
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = users.Add(context.Background(), models.User{Email: "bo@example.com", Name: "Bo", Password: "pw", Role: "root"})
	require.ErrorAs(t, err, &verr)

	assert.Empty(t, aux.registered)
}

func TestUpdateAndRemoveUser(t *testing.T) {
	aux := &fakeAux{users: []models.User{{RecordID: "u1", Email: "bo@example.com", Name: "Bo", Role: "user"}}}
	users := NewUsers(aux, nil)

	list, err := users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, users.Update(context.Background(), models.User{RecordID: "u1", Email: "bo@example.com", Name: "Bo B", Role: "admin"}))
	require.Len(t, aux.updated, 1)
	assert.Equal(t, "Bo B", aux.updated[0].Name)

	require.NoError(t, users.Remove(context.Background(), "u1"))
	assert.Equal(t, []string{"Users/u1"}, aux.deletes)
}

func TestUserGuardRejectsConcurrentChange(t *testing.T) {
	users := NewUsers(&fakeAux{}, nil)
	require.True(t, users.begin(&users.removing, "u1"))
	assert.ErrorIs(t, users.Remove(context.Background(), "u2"), ErrInFlight)
	users.end(&users.removing)
	assert.NoError(t, users.Remove(context.Background(), "u2"))
}
