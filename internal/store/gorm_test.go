package store

import (
	"context"
	"testing"

	"costbook-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Malformed ids never reach the database, so a store without a connection
// is enough here.
func TestGorm_MalformedIDsAreNotFound(t *testing.T) {
	ctx := context.Background()
	g := NewGorm(nil)

	_, err := g.GetIngredient(ctx, 1, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = g.GetRecipe(ctx, 1, "42")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = g.GetPurchase(ctx, 1, "")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, g.DeleteIngredient(ctx, 1, "x"), ErrNotFound)
	assert.ErrorIs(t, g.DeleteRecipe(ctx, 1, "x"), ErrNotFound)
	assert.ErrorIs(t, g.DeletePurchase(ctx, 1, "x"), ErrNotFound)
	assert.ErrorIs(t, g.UpdateIngredient(ctx, &models.Ingredient{ID: "x", OwnerID: 1}), ErrNotFound)
	assert.ErrorIs(t, g.UpdateRecipe(ctx, &models.Recipe{ID: "x", OwnerID: 1}), ErrNotFound)
}

func TestValidID(t *testing.T) {
	assert.True(t, validID(uuid.NewString()))
	assert.False(t, validID("abc"))
	assert.False(t, validID(""))
}

func TestGorm_CreateUserReportsQueryErrors(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=costbook dbname=costbook sslmode=disable connect_timeout=1"), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	err = NewGorm(db).CreateUser(context.Background(), &models.User{Email: "a@example.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
}
