package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labattend/internal/config"
	"labattend/internal/httpmiddleware"
)

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	db, err := openStore(filepath.Join(dir, "data", "lab.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	_, err = openStore(filepath.Join(blocker, "lab.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open database "+filepath.Join(blocker, "lab.db"))
}

func TestRunFailsOnUnusableStore(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := run(config.App{DBPath: filepath.Join(blocker, "lab.db")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open database")
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(config.App{RateLimitPerMin: 0}, nil))

	l := newLimiter(config.App{RateLimitPerMin: 10, RateLimitBackend: "redis"}, nil)
	assert.IsType(t, &httpmiddleware.TokenBucket{}, l, "redis backend without a client falls back to memory")
}
