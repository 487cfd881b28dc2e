package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// APIKeyVar is the variable name looked up in the environment and in .env files.
const APIKeyVar = "GEMINI_API_KEY"

// ErrNoCredential is returned when no API key is found in any source.
var ErrNoCredential = errors.New("no Gemini API key found. Please provide one of the following:\n" +
	"1. Command line argument: --api-key YOUR_KEY\n" +
	"2. Project .env file: Add GEMINI_API_KEY=your_key to .env\n" +
	"3. Environment variable: export GEMINI_API_KEY=your_key\n" +
	"4. Home .env file: Add GEMINI_API_KEY=your_key to ~/.env")

// CredentialSource records where an API key was found.
type CredentialSource string

const (
	SourceFlag       CredentialSource = "command line argument"
	SourceProjectEnv CredentialSource = "project .env file"
	SourceEnvVar     CredentialSource = "environment variable"
	SourceHomeEnv    CredentialSource = "home .env file"
)

// Credential is a resolved API key and its origin.
type Credential struct {
	Key    string
	Source CredentialSource
}

// CredentialResolver finds the API key in priority order:
// explicit value, <root>/.env, the environment, ~/.env.
type CredentialResolver struct {
	fs     FileSystem
	getenv func(string) string
	logger *zap.Logger
}

// NewCredentialResolver creates a resolver backed by the real OS.
func NewCredentialResolver(logger *zap.Logger) *CredentialResolver {
	return NewCredentialResolverWith(OSFileSystem{}, os.Getenv, logger)
}

// NewCredentialResolverWith creates a resolver with injected dependencies (for testing).
func NewCredentialResolverWith(fs FileSystem, getenv func(string) string, logger *zap.Logger) *CredentialResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialResolver{fs: fs, getenv: getenv, logger: logger}
}

// Resolve returns the first API key found. projectRoot locates the project .env file.
func (r *CredentialResolver) Resolve(explicit, projectRoot string) (Credential, error) {
	if explicit != "" {
		return r.found(explicit, SourceFlag), nil
	}

	if projectRoot != "" {
		if key, ok := r.fromEnvFile(filepath.Join(projectRoot, ".env")); ok {
			return r.found(key, SourceProjectEnv), nil
		}
	}

	if key := r.getenv(APIKeyVar); key != "" {
		return r.found(key, SourceEnvVar), nil
	}

	if home, err := r.fs.UserHomeDir(); err == nil {
		if key, ok := r.fromEnvFile(filepath.Join(home, ".env")); ok {
			return r.found(key, SourceHomeEnv), nil
		}
	}

	return Credential{}, ErrNoCredential
}

func (r *CredentialResolver) found(key string, source CredentialSource) Credential {
	r.logger.Info("using API key", zap.String("source", string(source)))
	return Credential{Key: key, Source: source}
}

// fromEnvFile reads APIKeyVar from a .env file. Unreadable files are skipped
// with a warning so later sources are still consulted.
func (r *CredentialResolver) fromEnvFile(path string) (string, bool) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("could not read .env file", zap.String("path", path), zap.Error(err))
		}
		return "", false
	}

	env := ParseEnv(string(data))
	key, ok := env[APIKeyVar]
	return key, ok && key != ""
}

// ParseEnv parses .env content into a map.
// It supports:
// - KEY=VALUE format
// - Comments starting with #
// - Empty lines
// - Basic quoted values (single and double quotes)
//
// Lines without '=' are ignored.
func ParseEnv(content string) map[string]string {
	env := make(map[string]string)

	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		env[key] = value
	}

	return env
}

// ValidateAPIKey performs a basic format check on an API key.
func ValidateAPIKey(key string) error {
	if len(key) < 20 {
		return fmt.Errorf("API key looks too short (%d characters)", len(key))
	}
	if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
		return errors.New("API key contains whitespace")
	}
	return nil
}
