package constants

import "time"

const (
	// Session and context keys
	ContextKeyUserID       = "user_id"
	ContextKeyUser         = "user"
	ContextKeyAssignmentID = "assignment_id"
	SessionCookieName      = "objectives_session"

	// Auth
	MinPasswordLength = 8

	// Background jobs
	StatusSweepTimeout = 10 * time.Minute

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// AI drafting
	MaxAIGeneratedObjectives = 20
)
