package models

// Admin "inherits" from User via embedding. The distinguishing field is Role,
// which is always "admin".
type Admin struct {
	User
}

// NewAdmin creates an admin model with Role preset to "admin".
func NewAdmin(username, password string) *Admin {
	return &Admin{User: User{Username: username, Password: password, Role: RoleAdmin}}
}
