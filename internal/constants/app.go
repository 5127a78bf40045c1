package constants

// Token claims shared by every issuance path. Issuer and audience are
// checked by the auth middleware to prevent cross-application token reuse.
const (
	TokenIssuer   = "myapp"
	TokenAudience = "myapp-users"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Todo priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Gin context key under which the auth middleware stores decoded claims.
const ContextClaimsKey = "auth_claims"
