package audit

import "time"

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionSignIn = "sign_in"
)

// Event describes one successful mutation made by UserID.
type Event struct {
	UserID   uint
	Action   string
	Entity   string
	EntityID uint
	Metadata any
	At       time.Time
}
