package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ID is an identifier the backend may encode either as a JSON number or a string.
type ID string

// UnmarshalJSON accepts numbers and strings; anything else decodes to the empty ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*id = ""
		return nil
	}
	*id = ID(n.String())
	return nil
}

// Int64 returns the numeric form of the identifier when it has one.
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

func (id ID) String() string {
	return string(id)
}

// Authority is the object form of a role, as issued by Spring-style backends.
type Authority struct {
	Authority string `json:"authority"`
}

// RoleSet is the canonical role representation: a set of role names.
type RoleSet []string

// NewRoleSet builds a deduplicated set, dropping blank names.
func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		set = append(set, role)
	}
	return set
}

// Has reports whether name is in the set.
func (r RoleSet) Has(name string) bool {
	for _, role := range r {
		if role == name {
			return true
		}
	}
	return false
}

// HasAny reports whether any of names is in the set.
func (r RoleSet) HasAny(names ...string) bool {
	for _, name := range names {
		if r.Has(name) {
			return true
		}
	}
	return false
}

// UnmarshalJSON normalizes a string, an authority object, or an array of either.
// Unrecognized shapes produce an empty set instead of an error.
func (r *RoleSet) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*r = RoleSet{}
		return nil
	}
	*r = NormalizeRoles(raw)
	return nil
}

// MarshalJSON always writes the canonical array form.
func (r RoleSet) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(r))
}

// NormalizeRoles converts a generically decoded role claim into a RoleSet.
func NormalizeRoles(raw any) RoleSet {
	switch v := raw.(type) {
	case string:
		return NewRoleSet(v)
	case map[string]any:
		if name, ok := v["authority"].(string); ok {
			return NewRoleSet(name)
		}
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			switch role := item.(type) {
			case string:
				names = append(names, role)
			case map[string]any:
				if name, ok := role["authority"].(string); ok {
					names = append(names, name)
				}
			}
		}
		return NewRoleSet(names...)
	case []string:
		return NewRoleSet(v...)
	}
	return RoleSet{}
}

// UserInfo is the record derived from a credential and persisted next to it.
type UserInfo struct {
	Username string  `json:"username"`
	UserID   ID      `json:"userId"`
	Role     RoleSet `json:"role"`
	Exp      int64   `json:"exp"`
}

// ExpiresAt returns the credential expiry as a time.
func (u UserInfo) ExpiresAt() time.Time {
	return time.Unix(u.Exp, 0)
}

// Session is a point-in-time view of the authenticated identity.
type Session struct {
	Username      string
	Roles         RoleSet
	Authenticated bool
}
