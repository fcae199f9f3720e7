package auth

import (
	"os"
	"time"
)

const (
	// CookiesEnv holds a cookie string in the "key=value; ..." form
	CookiesEnv = "IMDBRATINGS_COOKIES"
	// UserAgentEnv optionally overrides the user agent of the env session
	UserAgentEnv = "IMDBRATINGS_USER_AGENT"

	envAccountName = "env"
)

// EnvironmentStore exposes a read-only account built from environment variables
type EnvironmentStore struct{}

func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment session, which answers to "env" or ""
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	cookies := os.Getenv(CookiesEnv)
	if cookies == "" || (name != "" && name != envAccountName) {
		return nil, ErrCredentialsNotFound
	}
	name = envAccountName

	return &Account{
		Name:         name,
		Cookies:      cookies,
		UserAgent:    os.Getenv(UserAgentEnv),
		LastModified: time.Now(),
	}, nil
}

func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv(CookiesEnv) != ""
}
