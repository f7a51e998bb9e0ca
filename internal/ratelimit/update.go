package ratelimit

import "strconv"

// UpdateKind classifies an incoming Telegram update.
type UpdateKind string

const (
	UpdateCommand  UpdateKind = "command"
	UpdateText     UpdateKind = "text"
	UpdateCallback UpdateKind = "callback"
	UpdateOther    UpdateKind = "other"
)

// Valid reports whether k is one of the known kinds.
func (k UpdateKind) Valid() bool {
	switch k {
	case UpdateCommand, UpdateText, UpdateCallback, UpdateOther:
		return true
	}
	return false
}

// label maps unknown kinds to UpdateOther so metric cardinality stays fixed.
func (k UpdateKind) label() string {
	if !k.Valid() {
		return string(UpdateOther)
	}
	return string(k)
}

// UserKey is the bucket holding every update of one user. All kinds share the budget.
func UserKey(userID int64) string {
	return "updates:user:" + strconv.FormatInt(userID, 10)
}
