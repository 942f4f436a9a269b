package db_test

import (
	"context"
	"testing"
	"time"

	"gatepass/db"
	"gatepass/db/dbtest"

	"github.com/stretchr/testify/require"
)

func TestRefreshTokenLifecycle(t *testing.T) {
	queries := dbtest.NewQueries(t)
	ctx := context.Background()

	admin := &db.Admin{Username: "gate-1", PasswordHash: "hash", EventKey: "gala-2026"}
	require.NoError(t, queries.CreateAdmin(ctx, admin))

	found, err := queries.GetAdminByUsername(ctx, "gate-1")
	require.NoError(t, err)
	require.Equal(t, admin.ID, found.ID)

	_, err = queries.GetAdminByUsername(ctx, "nobody")
	require.ErrorIs(t, err, db.ErrAdminNotFound)

	now := time.Now()
	token := &db.RefreshToken{AdminID: admin.ID, TokenHash: "abc", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, queries.CreateRefreshToken(ctx, token))

	active, err := queries.GetActiveRefreshToken(ctx, "abc", now)
	require.NoError(t, err)
	require.Equal(t, token.ID, active.ID)

	// Expired from the point of view of a later clock
	_, err = queries.GetActiveRefreshToken(ctx, "abc", now.Add(2*time.Hour))
	require.ErrorIs(t, err, db.ErrRefreshTokenNotFound)

	require.NoError(t, queries.RevokeRefreshToken(ctx, token.ID, now))
	require.ErrorIs(t, queries.RevokeRefreshToken(ctx, token.ID, now), db.ErrRefreshTokenNotFound)

	_, err = queries.GetActiveRefreshToken(ctx, "abc", now)
	require.ErrorIs(t, err, db.ErrRefreshTokenNotFound)
}
