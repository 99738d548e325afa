package keystore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiredeck/hiredeck-go/session/keystore"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keystore.bin")

	store, err := keystore.NewFileStore(path, []byte("passphrase"))
	require.NoError(t, err)

	_, err = store.Get(ctx, "refreshToken")
	require.ErrorIs(t, err, keystore.ErrNotFound)

	require.NoError(t, store.Set(ctx, "refreshToken", "rt-1"))
	value, err := store.Get(ctx, "refreshToken")
	require.NoError(t, err)
	require.Equal(t, "rt-1", value)

	require.NoError(t, store.Delete(ctx, "refreshToken"))
	_, err = store.Get(ctx, "refreshToken")
	require.ErrorIs(t, err, keystore.ErrNotFound)

	// Deleting an absent key is fine.
	require.NoError(t, store.Delete(ctx, "refreshToken"))
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keystore.bin")

	store, err := keystore.NewFileStore(path, []byte("passphrase"))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "refreshToken", "rt-1"))
	require.NoError(t, store.Set(ctx, "userData", `{"id":"user-1"}`))

	reopened, err := keystore.NewFileStore(path, []byte("passphrase"))
	require.NoError(t, err)

	value, err := reopened.Get(ctx, "refreshToken")
	require.NoError(t, err)
	require.Equal(t, "rt-1", value)

	value, err = reopened.Get(ctx, "userData")
	require.NoError(t, err)
	require.Equal(t, `{"id":"user-1"}`, value)
}

func TestFileStoreWrongPassphrase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keystore.bin")

	store, err := keystore.NewFileStore(path, []byte("correct"))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "refreshToken", "rt-1"))

	_, err = keystore.NewFileStore(path, []byte("wrong"))
	require.Error(t, err)
}

func TestFileStoreValidation(t *testing.T) {
	_, err := keystore.NewFileStore("", []byte("p"))
	require.Error(t, err)

	_, err = keystore.NewFileStore(filepath.Join(t.TempDir(), "k"), nil)
	require.Error(t, err)
}
