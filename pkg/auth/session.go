package auth

import (
	"fmt"

	errs "imdbratings/pkg/errors"
)

// Session sources, in the order they are tried
const (
	SourceFile      = "cookie file"
	SourceAccount   = "stored account"
	SourceEnv       = "environment"
	SourceAnonymous = "anonymous"
)

// Session is the resolved cookie set for a run
type Session struct {
	Cookies   map[string]string
	UserAgent string
	Source    string
}

// ResolveSession picks the cookies for a run: an explicit cookie file, then
// a named stored account, then IMDBRATINGS_COOKIES, and finally no cookies.
// mgr may be nil when no account is requested.
func ResolveSession(cookiesFile, account string, mgr *Manager) (*Session, error) {
	if cookiesFile != "" {
		cookies, err := ReadCookieFile(cookiesFile)
		if err != nil {
			return nil, err
		}
		return &Session{Cookies: cookies, Source: SourceFile}, nil
	}

	if account != "" {
		if mgr == nil {
			return nil, errs.Config(fmt.Sprintf("no credential store available for account %s", account), nil)
		}
		acc, err := mgr.Retrieve(account)
		if err != nil {
			return nil, errs.Config(fmt.Sprintf("account %s", account), err)
		}
		cookies, err := acc.CookieMap()
		if err != nil {
			return nil, err
		}
		return &Session{Cookies: cookies, UserAgent: acc.UserAgent, Source: SourceAccount}, nil
	}

	if acc, err := NewEnvironmentStore().Retrieve(""); err == nil {
		cookies, err := acc.CookieMap()
		if err != nil {
			return nil, err
		}
		return &Session{Cookies: cookies, UserAgent: acc.UserAgent, Source: SourceEnv}, nil
	}

	return &Session{Cookies: map[string]string{}, Source: SourceAnonymous}, nil
}
