package domain

import "time"

// RoleEmployee is the only role the system issues. It still travels inside
// tokens so that clients see a stable claim shape.
const RoleEmployee = "employee"

// User represents an employee account able to record sales.
type User struct {
	ID           int64
	Username     string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}
