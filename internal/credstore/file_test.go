package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posguard/licadmin/internal/domain"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "sub", "credentials.json"))
}

func TestFileStore_RoundTrip(t *testing.T) {
	fs := newTestFileStore(t)

	require.NoError(t, fs.SaveToken("tok-123"))
	require.NoError(t, fs.SaveUser(&domain.User{ID: "usr_1", Name: "Dana Ops", Phone: "+15550100"}))

	tok, err := fs.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)

	user, err := fs.LoadUser()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Dana Ops", user.Name)
	assert.Equal(t, "+15550100", user.Phone)
}

func TestFileStore_AbsentIsEmpty(t *testing.T) {
	fs := newTestFileStore(t)

	tok, err := fs.LoadToken()
	require.NoError(t, err)
	assert.Empty(t, tok)

	user, err := fs.LoadUser()
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFileStore_SaveTokenKeepsUser(t *testing.T) {
	fs := newTestFileStore(t)

	require.NoError(t, fs.SaveUser(&domain.User{ID: "usr_1"}))
	require.NoError(t, fs.SaveToken("tok-456"))

	user, err := fs.LoadUser()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "usr_1", user.ID)
}

func TestFileStore_CorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{not json"), 0o600))
	fs := NewFileStore(path)

	tok, err := fs.LoadToken()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestFileStore_CorruptUserIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok","user":{"id":42}}`), 0o600))
	fs := NewFileStore(path)

	// The token half is still usable.
	tok, err := fs.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)

	_, err = fs.LoadUser()
	assert.Error(t, err)
}

func TestFileStore_Clear(t *testing.T) {
	fs := newTestFileStore(t)
	require.NoError(t, fs.SaveToken("tok-789"))

	require.NoError(t, fs.Clear())
	// Clearing twice is fine.
	require.NoError(t, fs.Clear())

	tok, err := fs.LoadToken()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestFileStore_Permissions(t *testing.T) {
	fs := newTestFileStore(t)
	require.NoError(t, fs.SaveToken("secret"))

	info, err := os.Stat(fs.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
