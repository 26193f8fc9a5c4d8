package constants

// ContextKeyUserID is the gin context / session key for the authenticated user.
const ContextKeyUserID = "user_id"

// ContextKeyProjectRole is the gin context key for the caller's resolved
// project role, set by the project access middleware.
const ContextKeyProjectRole = "project_role"

// ContextKeyProjectID is the gin context key for the resolved project ID.
const ContextKeyProjectID = "project_id"

// Pagination bounds
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 8

// MaxProjectKeyLength bounds the uppercase alphanumeric project key.
const MaxProjectKeyLength = 10
