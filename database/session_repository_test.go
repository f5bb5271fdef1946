package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Juli03-22/lookaly-fullstack/models"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	session := &models.Session{
		Token: "token-abc",
		User:  models.Identity{ID: "7", Name: "Julia", Email: "julia@example.com"},
	}

	t.Run("Missing Slot Is Anonymous", func(t *testing.T) {
		_, client := newTestRedis(t)
		repo := NewSessionRepository(client)

		got, err := repo.Get(ctx, "tab-1")

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Save Then Get Round Trip", func(t *testing.T) {
		_, client := newTestRedis(t)
		repo := NewSessionRepository(client)

		assert.NoError(t, repo.Save(ctx, "tab-1", session, time.Hour))

		got, err := repo.Get(ctx, "tab-1")
		assert.NoError(t, err)
		assert.Equal(t, "token-abc", got.Token)
		assert.Equal(t, "julia@example.com", got.User.Email)
	})

	t.Run("Corrupt Slot Is Deleted And Anonymous", func(t *testing.T) {
		mr, client := newTestRedis(t)
		repo := NewSessionRepository(client)

		mr.Set("session:tab-1", "%%garbage%%")

		got, err := repo.Get(ctx, "tab-1")

		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.False(t, mr.Exists("session:tab-1"))
	})

	t.Run("Empty Token Is Treated As Corrupt", func(t *testing.T) {
		mr, client := newTestRedis(t)
		repo := NewSessionRepository(client)

		mr.Set("session:tab-1", `{"token":"","user":{"id":"7"}}`)

		got, err := repo.Get(ctx, "tab-1")

		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.False(t, mr.Exists("session:tab-1"))
	})

	t.Run("Slot Expires With TTL", func(t *testing.T) {
		mr, client := newTestRedis(t)
		repo := NewSessionRepository(client)

		assert.NoError(t, repo.Save(ctx, "tab-1", session, time.Minute))
		mr.FastForward(2 * time.Minute)

		got, err := repo.Get(ctx, "tab-1")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Delete Clears The Slot", func(t *testing.T) {
		_, client := newTestRedis(t)
		repo := NewSessionRepository(client)

		assert.NoError(t, repo.Save(ctx, "tab-1", session, time.Hour))
		assert.NoError(t, repo.Delete(ctx, "tab-1"))

		got, err := repo.Get(ctx, "tab-1")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}
