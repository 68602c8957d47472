package domain

// UserStatus represents lifecycle states for a storefront account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusPending  UserStatus = "PENDING"
)

// User is a storefront account as returned by the user resource.
// Type carries the account role (the backend stores it as the user type).
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Type      string     `json:"type,omitempty"`
	Status    UserStatus `json:"status,omitempty"`
	CreatedAt string     `json:"createdAt,omitempty"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users         []User `json:"users"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
}

// Profile is the current user's profile merged with the decoded credential.
type Profile struct {
	User
	Role RoleSet `json:"role"`
}

// Registration is the sign-up payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
