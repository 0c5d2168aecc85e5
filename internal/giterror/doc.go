// Package giterror classifies errors returned by the GitHub GraphQL API.
// It centralizes the logic for recognizing authentication, not-found,
// rate-limit, and network failures, eliminating scattered string checks
// throughout the codebase.
package giterror
