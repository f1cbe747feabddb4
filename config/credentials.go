package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Credential environment variables.
const (
	EnvAOAIEndpoint = "AOAI_ENDPOINT"
	EnvAOAIKey      = "AOAI_KEY"
	EnvAOAIVersion  = "AOAI_VERSION"
	EnvOpenAIKey    = "OPENAI_KEY"
	EnvAnthropicKey = "ANTHROPIC_KEY"
)

// DefaultAOAIVersion is used when AOAI_VERSION is unset.
const DefaultAOAIVersion = "2024-10-21"

// Credentials are the provider secrets handed to SDK clients.
type Credentials struct {
	AOAIEndpoint string
	AOAIKey      string
	AOAIVersion  string
	OpenAIKey    string
	AnthropicKey string
}

// LoadCredentials seeds the environment from the given .env files (".env"
// when none are given) and reads the credentials. Variables already set in
// the environment win over file values, and earlier files win over later
// ones. Missing files are skipped; a file that cannot be parsed is an error.
func LoadCredentials(envFiles ...string) (Credentials, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Credentials{}, fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return CredentialsFromEnv(), nil
}

// CredentialsFromEnv reads the credentials from the process environment.
func CredentialsFromEnv() Credentials {
	c := Credentials{
		AOAIEndpoint: os.Getenv(EnvAOAIEndpoint),
		AOAIKey:      os.Getenv(EnvAOAIKey),
		AOAIVersion:  os.Getenv(EnvAOAIVersion),
		OpenAIKey:    os.Getenv(EnvOpenAIKey),
		AnthropicKey: os.Getenv(EnvAnthropicKey),
	}
	if c.AOAIVersion == "" {
		c.AOAIVersion = DefaultAOAIVersion
	}
	return c
}
