package bot

import (
	"slices"
	"strconv"
	"strings"
)

// Auth checks callers against the admin allow-list. Entries are numeric
// Telegram user ids or usernames, with or without a leading '@'.
type Auth struct {
	ids       map[int64]bool
	usernames map[string]bool // lowercase
}

// NewAuth creates a new Auth with case-insensitive username matching.
func NewAuth(admins []string) *Auth {
	a := &Auth{
		ids:       make(map[int64]bool),
		usernames: make(map[string]bool),
	}
	for _, entry := range admins {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if id, err := strconv.ParseInt(entry, 10, 64); err == nil {
			a.ids[id] = true
			continue
		}
		a.usernames[strings.ToLower(strings.TrimPrefix(entry, "@"))] = true
	}
	return a
}

// IsAdmin reports whether the caller is on the allow-list. A zero id and
// an empty username never match.
func (a *Auth) IsAdmin(userID int64, username string) bool {
	if userID != 0 && a.ids[userID] {
		return true
	}
	if username == "" {
		return false
	}
	return a.usernames[strings.ToLower(username)]
}

// Len returns the number of allow-list entries.
func (a *Auth) Len() int {
	return len(a.ids) + len(a.usernames)
}

// IDs returns the numeric admin ids in ascending order. Private chats with
// these users share the user's id.
func (a *Auth) IDs() []int64 {
	ids := make([]int64, 0, len(a.ids))
	for id := range a.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
