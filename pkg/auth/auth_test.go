package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	errs "imdbratings/pkg/errors"
)

func TestParseCookieString(t *testing.T) {
	cookies, err := ParseCookieString("id=abc; sid=x=y==; session-id=131-42\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"id":         "abc",
		"sid":        "x=y==",
		"session-id": "131-42",
	}, cookies)

	empty, err := ParseCookieString("\n")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseCookieString("id=abc; garbage")
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestReadCookieFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte("uu=token; id=abc\n"), 0600))

	cookies, err := ReadCookieFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id=abc; uu=token", FormatCookies(cookies))

	_, err = ReadCookieFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestManagerLifecycle(t *testing.T) {
	mock := NewMockStore()
	manager := NewManagerWithStores(mock)

	account := &Account{Name: "main", Cookies: "id=abcdefghijkl; sid=0123456789"}
	require.NoError(t, manager.Store(account))
	assert.False(t, account.LastModified.IsZero())

	retrieved, err := manager.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, account.Cookies, retrieved.Cookies)

	accounts, err := manager.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "main", accounts[0].Name)

	require.NoError(t, manager.Delete("main"))
	assert.Equal(t, 0, mock.Count())

	_, err = manager.Retrieve("main")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.ErrorIs(t, manager.Delete("main"), ErrCredentialsNotFound)
}

func TestManagerStoreValidation(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	assert.Error(t, manager.Store(&Account{Cookies: "id=1"}))
	assert.Error(t, manager.Store(&Account{Name: "x"}))
	assert.Error(t, manager.Store(&Account{Name: "x", Cookies: "not a cookie"}))
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("locked")
	backup := NewMockStore()
	manager := NewManagerWithStores(broken, backup)

	require.NoError(t, manager.Store(&Account{Name: "main", Cookies: "id=1"}))
	assert.Equal(t, 0, broken.Count())
	assert.Equal(t, 1, backup.Count())

	backup.StoreError = errors.New("full")
	err := manager.Store(&Account{Name: "other", Cookies: "id=2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full")
}

func TestManagerListPrefersNewest(t *testing.T) {
	older := NewMockStore()
	newer := NewMockStore()
	now := time.Now()
	require.NoError(t, older.Store(&Account{Name: "main", Cookies: "id=old", LastModified: now.Add(-time.Hour)}))
	require.NoError(t, newer.Store(&Account{Name: "main", Cookies: "id=new", LastModified: now}))
	require.NoError(t, newer.Store(&Account{Name: "alt", Cookies: "id=alt", LastModified: now.Add(-time.Minute)}))

	accounts, err := NewManagerWithStores(older, newer).List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "main", accounts[0].Name)
	assert.Equal(t, "id=new", accounts[0].Cookies)
	assert.Equal(t, "alt", accounts[1].Name)
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "accounts.enc")
	store, err := NewEncryptedFileStoreWithPassphrase(path, "correct horse")
	require.NoError(t, err)

	assert.False(t, store.Exists("main"))
	require.NoError(t, store.Store(&Account{Name: "main", Cookies: "id=secret-value"}))
	require.NoError(t, store.Store(&Account{Name: "alt", Cookies: "id=other"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-value")

	account, err := store.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, "id=secret-value", account.Cookies)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	wrong, err := NewEncryptedFileStoreWithPassphrase(path, "wrong")
	require.NoError(t, err)
	_, err = wrong.Retrieve("main")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsNotFound)

	require.NoError(t, store.Delete("main"))
	require.NoError(t, store.Delete("alt"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "the file is removed with the last account")
	assert.ErrorIs(t, store.Delete("alt"), ErrCredentialsNotFound)

	_, err = NewEncryptedFileStoreWithPassphrase(path, "")
	assert.Error(t, err)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	require.NoError(t, err)

	require.NoError(t, store.Store(&Account{Name: "main", Cookies: "id=1"}))
	require.NoError(t, store.Store(&Account{Name: "alt", Cookies: "id=2"}))
	require.NoError(t, store.Store(&Account{Name: "main", Cookies: "id=3"}))
	assert.True(t, store.Exists("main"))

	accounts, err := store.List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	account, err := store.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, "id=3", account.Cookies)

	require.NoError(t, store.Delete("main"))
	assert.ErrorIs(t, store.Delete("main"), ErrCredentialsNotFound)
	_, err = store.Retrieve("main")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	accounts, err = store.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "alt", accounts[0].Name)
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Setenv(CookiesEnv, "")
	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.False(t, store.Exists(""))

	t.Setenv(CookiesEnv, "id=env")
	t.Setenv(UserAgentEnv, "TestAgent/1.0")
	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "env", account.Name)
	assert.Equal(t, "TestAgent/1.0", account.UserAgent)

	_, err = store.Retrieve("someone")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.ErrorIs(t, store.Store(account), ErrStoreUnavailable)
}

func TestResolveSession(t *testing.T) {
	t.Setenv(CookiesEnv, "")

	session, err := ResolveSession("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, SourceAnonymous, session.Source)
	assert.Empty(t, session.Cookies)

	t.Setenv(CookiesEnv, "id=env")
	session, err = ResolveSession("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, SourceEnv, session.Source)
	assert.Equal(t, "env", session.Cookies["id"])

	mock := NewMockStore()
	require.NoError(t, mock.Store(&Account{Name: "main", Cookies: "id=stored", UserAgent: "UA"}))
	manager := NewManagerWithStores(mock)

	session, err = ResolveSession("", "main", manager)
	require.NoError(t, err)
	assert.Equal(t, SourceAccount, session.Source)
	assert.Equal(t, "stored", session.Cookies["id"])
	assert.Equal(t, "UA", session.UserAgent)

	_, err = ResolveSession("", "missing", manager)
	assert.True(t, errs.IsConfig(err))

	path := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte("id=file\n"), 0600))
	session, err = ResolveSession(path, "main", manager)
	require.NoError(t, err)
	assert.Equal(t, SourceFile, session.Source)
	assert.Equal(t, "file", session.Cookies["id"])
}

func TestSanitizeAccount(t *testing.T) {
	account := &Account{Name: "main", Cookies: "id=abcdefghijklmnop; sid=short"}
	sanitized := SanitizeAccount(account)

	assert.Equal(t, "main", sanitized.Name)
	assert.Equal(t, "id=abcd...mnop; sid=********", sanitized.Cookies)
	assert.Nil(t, SanitizeAccount(nil))
}
