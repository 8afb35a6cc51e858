package domain

import "time"

// User is the profile of anyone who signs in: employees and IT staff alike.
type User struct {
	ID                 string
	EmployeeID         string
	FullName           string
	Email              string
	Department         *string
	Phone              *string
	Role               Role
	PasswordHash       string
	GamificationPoints int
	CreatedAt          time.Time
}
