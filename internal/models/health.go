package models

import (
	"fmt"
	"time"
)

// HealthStatus is a point-in-time probe result of the remote API.
type HealthStatus struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"` // seconds
}

// FormatUptime renders seconds as "2d 3h 4m", "3h 4m" or "4m".
func FormatUptime(seconds float64) string {
	total := int64(seconds)
	days := total / (24 * 60 * 60)
	hours := (total % (24 * 60 * 60)) / (60 * 60)
	minutes := (total % (60 * 60)) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
