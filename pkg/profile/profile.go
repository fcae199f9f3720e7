// Package profile reads the list of IMDb users whose ratings are exported.
package profile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	errs "imdbratings/pkg/errors"
)

// userIDPattern matches the IMDb user identifier embedded in a profile URL
var userIDPattern = regexp.MustCompile(`ur[0-9]+`)

// Profile is one IMDb user to export. It is immutable once loaded.
type Profile struct {
	Username string
	URL      string
	UserID   string
}

// Load reads profiles from a CSV file of (username, profile-URL) rows
func Load(path string) ([]Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Config(fmt.Sprintf("cannot open input file %s", path), err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads profiles from r. Every row must carry a username and a URL
// containing a user id; usernames must be unique because they name the output file.
func Parse(r io.Reader) ([]Profile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var profiles []Profile
	seen := make(map[string]int)

	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Config(fmt.Sprintf("malformed input at line %d", line), err)
		}

		if len(row) < 2 {
			return nil, errs.Config(fmt.Sprintf("line %d: expected username and profile URL, got %d field(s)", line, len(row)), nil)
		}

		username := strings.TrimSpace(row[0])
		if username == "" {
			return nil, errs.Config(fmt.Sprintf("line %d: empty username", line), nil)
		}

		if strings.ContainsAny(username, `/\`) || username == "." || username == ".." {
			return nil, errs.Config(fmt.Sprintf("line %d: username %q cannot be used as a file name", line, username), nil)
		}

		url := row[1]
		userID := userIDPattern.FindString(url)
		if userID == "" {
			return nil, errs.Config(fmt.Sprintf("line %d: no user id (ur[0-9]+) in profile URL %q for %s", line, url, username), nil)
		}

		if prev, ok := seen[username]; ok {
			return nil, errs.Config(fmt.Sprintf("line %d: duplicate username %s (first seen on line %d)", line, username, prev), nil)
		}
		seen[username] = line

		profiles = append(profiles, Profile{
			Username: username,
			URL:      url,
			UserID:   userID,
		})
	}

	return profiles, nil
}

// Usernames returns the usernames of profiles in order
func Usernames(profiles []Profile) []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Username
	}
	return names
}
