package domain

import "time"

// LoginAttempt is one entry in the authentication audit trail. The username is
// recorded as supplied, without a foreign key, so attempts against unknown
// accounts are kept too.
type LoginAttempt struct {
	ID        int64
	Username  string
	Success   bool
	IPAddress string
	CreatedAt time.Time
}
