// Package constants defines global constants used throughout syncdeck.
// It includes version information, paths, and configuration keys.
package constants

import "time"

var version = "0.0.0-development" // Updated by CI/CD pipeline at build time

// GetVersion returns the current version of syncdeck.
func GetVersion() *string {
	return &version
}

// ProjectName is the name of the CLI tool and application.
const ProjectName = "syncdeck"

// Environment represents the execution environment (e.g., CLI, simulator).
type Environment string

// Environment types for logger configuration
const (
	Development Environment = "development"
	Production  Environment = "production"
	CLI         Environment = "cli"
)

// APIKeyHeader is the HTTP header name for API key authentication
//
//nolint:gosec // G101: This is a header name constant, not a hardcoded credential
const APIKeyHeader = "X-API-Key"

// ContentTypeHeader is the HTTP Content-Type header name.
const ContentTypeHeader = "Content-Type"

// TestContextTimeout is the timeout applied to contexts created for tests.
const TestContextTimeout = 10 * time.Second
