package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "imdbratings/pkg/errors"
)

func TestParse(t *testing.T) {
	input := `alice,http://www.imdb.com/user/ur0000001/
 bob ,"http://www.imdb.com/user/ur1234567/ratings"
carol,https://m.imdb.com/user/ur42/?ref_=nv
`
	profiles, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, Profile{Username: "alice", URL: "http://www.imdb.com/user/ur0000001/", UserID: "ur0000001"}, profiles[0])
	assert.Equal(t, "bob", profiles[1].Username)
	assert.Equal(t, "ur1234567", profiles[1].UserID)
	assert.Equal(t, "ur42", profiles[2].UserID)
	assert.Equal(t, []string{"alice", "bob", "carol"}, Usernames(profiles))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"missing user id", "alice,http://www.imdb.com/user/nobody/\n", "line 1: no user id"},
		{"single field", "alice\n", "expected username and profile URL"},
		{"empty username", " ,http://www.imdb.com/user/ur1/\n", "empty username"},
		{"duplicate", "a,ur1\nb,ur2\na,ur3\n", "line 3: duplicate username a"},
		{"path in username", "../etc,ur1\n", "cannot be used as a file name"},
		{"bad quoting", "a,\"ur1\n", "malformed input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errs.IsConfig(err))
		})
	}
}

func TestParseEmpty(t *testing.T) {
	profiles, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte("dave,http://www.imdb.com/user/ur99/\n"), 0644))

	profiles, err := Load(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "ur99", profiles[0].UserID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}
