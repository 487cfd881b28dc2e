package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFunc(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestResolve_Priority(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/proj/.env":      []byte("GEMINI_API_KEY=project-key\n"),
			"/home/user/.env": []byte("GEMINI_API_KEY=home-key\n"),
		},
	}
	env := envFunc(map[string]string{APIKeyVar: "env-key"})

	tests := []struct {
		name     string
		explicit string
		root     string
		fs       *MockFileSystem
		env      func(string) string
		want     Credential
	}{
		{"explicit wins", "flag-key", "/proj", fs, env, Credential{"flag-key", SourceFlag}},
		{"project env before variable", "", "/proj", fs, env, Credential{"project-key", SourceProjectEnv}},
		{"variable before home env", "", "/other", fs, env, Credential{"env-key", SourceEnvVar}},
		{"home env last", "", "/other", fs, envFunc(nil), Credential{"home-key", SourceHomeEnv}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCredentialResolverWith(tt.fs, tt.env, nil)
			cred, err := r.Resolve(tt.explicit, tt.root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cred)
		})
	}
}

func TestResolve_NoSource_ListsOptions(t *testing.T) {
	r := NewCredentialResolverWith(&MockFileSystem{HomeDir: "/home/user"}, envFunc(nil), nil)

	_, err := r.Resolve("", "/proj")

	require.ErrorIs(t, err, ErrNoCredential)
	assert.Contains(t, err.Error(), "--api-key")
	assert.Contains(t, err.Error(), "~/.env")
}

func TestResolve_UnreadableProjectEnv_FallsThrough(t *testing.T) {
	fs := &MockFileSystem{HomeDir: "/home/user", ReadFileErr: os.ErrPermission}
	r := NewCredentialResolverWith(fs, envFunc(map[string]string{APIKeyVar: "env-key"}), nil)

	cred, err := r.Resolve("", "/proj")

	require.NoError(t, err)
	assert.Equal(t, SourceEnvVar, cred.Source)
}

func TestParseEnv(t *testing.T) {
	env := ParseEnv("# comment\n\nA=1\nB = \"two\"\nC='three'\nnot a pair\nD=x=y\n")

	assert.Equal(t, map[string]string{"A": "1", "B": "two", "C": "three", "D": "x=y"}, env)
}

func TestValidateAPIKey(t *testing.T) {
	assert.NoError(t, ValidateAPIKey("AIzaSyA1234567890abcdefgh"))
	assert.Error(t, ValidateAPIKey("short"))
	assert.Error(t, ValidateAPIKey("AIzaSyA12345 67890abcdefgh"))
}
