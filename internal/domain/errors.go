package domain

import "errors"

// Domain errors
var (
	// Configuration errors
	ErrConfiguration = errors.New("invalid configuration")

	// Validation errors
	ErrInvalidRepositoryPath = errors.New("repository path must look like owner/name")
	ErrInvalidMaintainer     = errors.New("invalid maintainer username")
	ErrInvalidNumber         = errors.New("pull request number must be positive")

	// Remote errors
	ErrParse          = errors.New("malformed remote response")
	ErrTransientFetch = errors.New("remote fetch failed")

	// Repository errors
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrRepositoryExists   = errors.New("repository already tracked")

	// Pull request errors
	ErrPullRequestNotFound = errors.New("pull request not found")
	ErrPullRequestExists   = errors.New("pull request already stored")
	ErrCountMismatch       = errors.New("requested pull requests are not all stored")

	// Integrity errors
	ErrParentNotFound = errors.New("parent row does not exist")
)

// HTTPError is the error body returned by the API.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error HTTPError `json:"error"`
}

// ErrorMapping maps domain errors to API errors. Entries are checked in
// order, so an error wrapping several sentinels gets the first match.
type ErrorMapping struct {
	Target error
	HTTP   HTTPError
}

var errorMappings = []ErrorMapping{
	// conflict
	{ErrRepositoryExists, HTTPError{Code: "REPOSITORY_EXISTS", Message: "repository is already tracked"}},
	{ErrPullRequestExists, HTTPError{Code: "PULL_REQUEST_EXISTS", Message: "pull request is already stored"}},
	{ErrCountMismatch, HTTPError{Code: "COUNT_MISMATCH", Message: "some pull requests are not stored"}},
	// not found
	{ErrRepositoryNotFound, HTTPError{Code: "NOT_FOUND", Message: "repository is not tracked"}},
	{ErrPullRequestNotFound, HTTPError{Code: "NOT_FOUND", Message: "pull request not found"}},
	// validation
	{ErrInvalidRepositoryPath, HTTPError{Code: "INVALID_REPOSITORY", Message: "repository must look like owner/name"}},
	{ErrInvalidMaintainer, HTTPError{Code: "INVALID_MAINTAINER", Message: "maintainers must be GitHub usernames"}},
	{ErrInvalidNumber, HTTPError{Code: "INVALID_NUMBER", Message: "pull request numbers must be positive"}},
	// upstream
	{ErrTransientFetch, HTTPError{Code: "REMOTE_UNAVAILABLE", Message: "remote request failed"}},
	{ErrParse, HTTPError{Code: "REMOTE_PARSE", Message: "remote response could not be parsed"}},
	// internal
	{ErrParentNotFound, HTTPError{Code: "INTEGRITY", Message: "parent row missing"}},
	{ErrConfiguration, HTTPError{Code: "CONFIGURATION", Message: "service is misconfigured"}},
}

// ErrorMappings returns the mapping table in match order.
func ErrorMappings() []ErrorMapping {
	return append([]ErrorMapping(nil), errorMappings...)
}

// ToHTTPError converts a (possibly wrapped) domain error into an API error.
func ToHTTPError(err error) (error, HTTPError, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.Target) {
			return m.Target, m.HTTP, true
		}
	}
	return nil, HTTPError{}, false
}
