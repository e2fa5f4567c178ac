package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage runs the behaviour every backend must share.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should be empty")

	require.NoError(t, s.Set(ctx, "token", "abc"))
	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.Set(ctx, "token", "def"))
	v, _, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "def", v)

	require.NoError(t, s.Set(ctx, "empty", ""))
	v, ok, err = s.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok, "empty value is still present")
	assert.Equal(t, "", v)

	require.NoError(t, s.Remove(ctx, "token"))
	_, ok, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remove(ctx, "token"), "removing a missing key succeeds")
	require.NoError(t, s.Remove(ctx, "empty"))
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStorage(t, m)

	require.NoError(t, m.Close())
	_, _, err := m.Get(context.Background(), "token")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	exerciseStorage(t, NewFile(path, "http://localhost:8080"))
}

func TestFile_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")

	require.NoError(t, NewFile(path, "a").Set(ctx, "token", "t1"))
	require.NoError(t, NewFile(path, "b").Set(ctx, "token", "t2"))

	v, ok, err := NewFile(path, "a").Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", v)

	v, _, err = NewFile(path, "b").Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "t2", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	ctx := context.Background()
	f := NewFile(path, "a")

	_, _, err := f.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, f.Remove(ctx, "token"))
	_, ok, err := f.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	require.NoError(t, f.Set(ctx, "token", "t1"))
	v, ok, err := f.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Options{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	_, err = Open(ctx, Options{Driver: DriverFile})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: DriverRedis})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: "etcd"})
	assert.Error(t, err)
}

func TestRedis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	s, err := OpenRedis(context.Background(), url, "eventdesk-test-"+uuid.NewString())
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	s, err := Open(context.Background(), Options{
		Driver:      DriverPostgres,
		DatabaseURL: dsn,
		Namespace:   "eventdesk-test-" + uuid.NewString(),
	})
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s)
}
