package config

import "os"

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads the runtime environment from CI and ENV. CI takes
// precedence so pipeline runs never pick up secret files; anything
// unrecognized falls back to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	for _, env := range []Environment{Production, Test, Development} {
		if os.Getenv("ENV") == string(env) {
			return env
		}
	}
	return Development
}

// IsProduction reports whether the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}

// IsTest reports whether the current environment is test
func IsTest() bool {
	return GetEnvironment() == Test
}
