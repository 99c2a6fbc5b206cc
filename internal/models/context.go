package models

// ContextKey namespaces request-context values set by middleware.
type ContextKey string

const (
	ContextKeyUserID ContextKey = "user_id"
	ContextKeyRole   ContextKey = "role"
)
