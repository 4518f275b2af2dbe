package domain

const (
	RoleAdmin     = "admin"
	RoleReception = "reception"
	RoleGuest     = "guest"
)

type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Session is a persisted login for non-guest roles. Guest logins are never
// written here.
type Session struct {
	ID        int64  `db:"id" json:"id"`
	Token     string `db:"token" json:"token"`
	Username  string `db:"username" json:"username"`
	Role      string `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
