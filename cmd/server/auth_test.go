package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printworks/internal/db"
	"github.com/Simplici0/printworks/internal/migrations"
	"github.com/Simplici0/printworks/internal/seed"
)

func TestSessionValueRoundTrip(t *testing.T) {
	auth := newAuthService(nil, "secret-a", false)

	value, err := auth.createSessionValue("admin@printworks.co")
	require.NoError(t, err)
	email, ok := auth.verifySessionValue(value)
	require.True(t, ok)
	require.Equal(t, "admin@printworks.co", email)

	other := newAuthService(nil, "secret-b", false)
	_, ok = other.verifySessionValue(value)
	require.False(t, ok, "cookie signed with another secret must be rejected")

	for _, bad := range []string{"", "no-dot", "YWRtaW4.zz", "." + value} {
		_, ok := auth.verifySessionValue(bad)
		require.False(t, ok, bad)
	}
}

func TestSessionValueExpires(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	auth := newAuthService(nil, "secret", false)
	auth.now = func() time.Time { return now }

	value, err := auth.createSessionValue("admin@printworks.co")
	require.NoError(t, err)

	now = now.Add(sessionTTL - time.Minute)
	_, ok := auth.verifySessionValue(value)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = auth.verifySessionValue(value)
	require.False(t, ok, "expired session must be rejected")
}

func TestValidateCredentials(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, migrations.Up(ctx, database))
	_, err = seed.Run(ctx, database, seed.Config{AdminEmail: "admin@printworks.co", AdminPassword: "12345"})
	require.NoError(t, err)

	auth := newAuthService(database, "secret", true)

	valid, err := auth.validateCredentials(ctx, "admin@printworks.co", "12345")
	require.NoError(t, err)
	require.True(t, valid)

	valid, err = auth.validateCredentials(ctx, "admin@printworks.co", "54321")
	require.NoError(t, err)
	require.False(t, valid)

	valid, err = auth.validateCredentials(ctx, "ghost@printworks.co", "12345")
	require.NoError(t, err)
	require.False(t, valid)
}
