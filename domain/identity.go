package domain

import "fmt"

// Identity is either an authenticated user id or an anonymous session token.
// Exactly one of the two is set; all activity, interest and recommendation
// state is keyed by Key().
type Identity struct {
	UserID  uint
	Session string
}

func UserIdentity(userID uint) Identity {
	return Identity{UserID: userID}
}

func SessionIdentity(token string) Identity {
	return Identity{Session: token}
}

func (i Identity) IsZero() bool {
	return i.UserID == 0 && i.Session == ""
}

// Key returns the storage key for this identity.
func (i Identity) Key() string {
	if i.UserID != 0 {
		return fmt.Sprintf("user:%d", i.UserID)
	}
	if i.Session != "" {
		return "anon:" + i.Session
	}
	return ""
}
