package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListUsersAdminOnly(t *testing.T) {
	users := newFakeUserRepo(
		&models.User{ID: primitive.NewObjectID(), Name: "Maria", Email: "maria@example.com"},
		&models.User{ID: primitive.NewObjectID(), Name: "Ana", Email: "ana@example.com"},
	)
	svc := NewUserService(users, newFakeCartRepo())

	_, appErr := svc.ListUsers(context.Background(), false)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Code)

	all, appErr := svc.ListUsers(context.Background(), true)
	require.Nil(t, appErr)
	assert.Len(t, all, 2)
}

func TestGetUserOwnerOrAdmin(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Name: "Maria", Email: "maria@example.com"}
	svc := NewUserService(newFakeUserRepo(user), newFakeCartRepo())

	_, appErr := svc.GetUser(context.Background(), primitive.NewObjectID(), false, user.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Code)

	summary, appErr := svc.GetUser(context.Background(), user.ID, false, user.ID)
	require.Nil(t, appErr)
	assert.Equal(t, "maria@example.com", summary.Email)

	_, appErr = svc.GetUser(context.Background(), primitive.NewObjectID(), true, user.ID)
	assert.Nil(t, appErr)

	_, appErr = svc.GetUser(context.Background(), primitive.NewObjectID(), true, primitive.NewObjectID())
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestDeleteUserRemovesCart(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Name: "Maria", Email: "maria@example.com"}
	users := newFakeUserRepo(user)
	carts := newFakeCartRepo()
	_, err := carts.Create(context.Background(), &models.Cart{UserID: user.ID})
	require.NoError(t, err)

	svc := NewUserService(users, carts)

	appErr := svc.DeleteUser(context.Background(), false, user.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Code)

	appErr = svc.DeleteUser(context.Background(), true, user.ID)
	require.Nil(t, appErr)

	cart, err := carts.FindByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, cart)

	appErr = svc.DeleteUser(context.Background(), true, user.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}
