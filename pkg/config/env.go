package config

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
)

func envOrEmpty(name string) string {
	return os.Getenv(name)
}

var (
	envVarWithDefault = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*):-?([^}]*)\}`)
	envVarBraced      = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
)

// expandEnvVars substitutes ${VAR} and ${VAR:default} references in s from
// the process environment. A variable with no default and no environment
// value expands to the empty string.
func expandEnvVars(s string) string {
	s = envVarWithDefault.ReplaceAllStringFunc(s, func(match string) string {
		parts := envVarWithDefault.FindStringSubmatch(match)
		name, def := parts[1], parts[2]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return def
	})

	s = envVarBraced.ReplaceAllStringFunc(s, func(match string) string {
		parts := envVarBraced.FindStringSubmatch(match)
		return os.Getenv(parts[1])
	})

	return s
}

// ExpandEnvVarsInTree recursively substitutes ${VAR}/${VAR:default} in every
// string leaf of a generic YAML-decoded tree (map[string]any / []any /
// string / scalar).
func ExpandEnvVarsInTree(data any) any {
	switch v := data.(type) {
	case string:
		return expandEnvVars(v)
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, value := range v {
			result[key] = ExpandEnvVarsInTree(value)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = ExpandEnvVarsInTree(item)
		}
		return result
	default:
		return v
	}
}

// LoadEnvFile auto-discovers a .env file, walking from the current working
// directory up to the filesystem root, and loads the first one found into
// the process environment. It is not an error for no .env file to exist.
func LoadEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	for {
		candidate := filepath.Join(dir, ".env")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return godotenv.Load(candidate)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}
