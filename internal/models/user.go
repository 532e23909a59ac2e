package models

import (
	"time"
)

const (
	UserStatusAtLimit  = "At Limit"
	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"
)

// User is a quota-tracked consumer. Only the remote reset endpoint mutates it.
type User struct {
	UserID     string     `json:"userId"`
	Remaining  int        `json:"remaining"`
	LinksGiven int        `json:"linksGiven"`
	FirstUsed  *time.Time `json:"firstUsed"`
	NextReset  *time.Time `json:"nextReset"`
}

// Status returns the badge label shown for the user in the users view.
func (u User) Status() string {
	switch {
	case u.Remaining == 0:
		return UserStatusAtLimit
	case u.LinksGiven > 0:
		return UserStatusActive
	default:
		return UserStatusInactive
	}
}

type UserStats struct {
	TotalUsers          int `json:"totalUsers"`
	TotalLinksDispensed int `json:"totalLinksDispensed"`
	ActiveUsers         int `json:"activeUsers"`
	UsersAtLimit        int `json:"usersAtLimit"`
}

// UsersSnapshot is the body of GET /api/users.
type UsersSnapshot struct {
	Statistics UserStats `json:"statistics"`
	Users      []User    `json:"users"`
}
