package domain

// Role names carried in JWT claims. Admins review student verification requests.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
