package auth

import (
	"fmt"
	"os"
	"sort"
	"strings"

	errs "imdbratings/pkg/errors"
)

// ParseCookieString parses "key=value; key2=value2" into a map.
// Values may contain '='; only the first one separates the key.
func ParseCookieString(s string) (map[string]string, error) {
	cookies := make(map[string]string)
	s = strings.TrimRight(s, "\r\n")
	if strings.TrimSpace(s) == "" {
		return cookies, nil
	}

	for _, item := range strings.Split(s, "; ") {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errs.Config(fmt.Sprintf("malformed cookie %q, expected key=value", item), nil)
		}
		cookies[key] = value
	}
	return cookies, nil
}

// ReadCookieFile reads a single-line cookie file
func ReadCookieFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Config(fmt.Sprintf("cannot read cookie file %s", path), err)
	}
	return ParseCookieString(string(data))
}

// FormatCookies renders cookies back into the "key=value; ..." form, sorted by key
func FormatCookies(cookies map[string]string) string {
	keys := make([]string, 0, len(cookies))
	for k := range cookies {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+cookies[k])
	}
	return strings.Join(parts, "; ")
}
