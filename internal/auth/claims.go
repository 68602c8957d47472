package auth

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/vnshop/storefront/internal/domain"
)

// Claims describes the credential payload as the client reads it.
// Role accepts every shape the backend has issued; see domain.RoleSet.
type Claims struct {
	UserID domain.ID      `json:"userId,omitempty"`
	Role   domain.RoleSet `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserInfo derives the persisted user-info record from the claims.
func (c *Claims) UserInfo() domain.UserInfo {
	info := domain.UserInfo{
		Username: c.Subject,
		UserID:   c.UserID,
		Role:     c.Role,
	}
	if c.ExpiresAt != nil {
		info.Exp = c.ExpiresAt.Unix()
	}
	if info.Role == nil {
		info.Role = domain.RoleSet{}
	}
	return info
}

var unverifiedParser = jwt.NewParser(jwt.WithPaddingAllowed())

// payload is the lenient view of the claims segment: sub may be a number and
// exp a numeric string.
type payload struct {
	Sub    any            `json:"sub"`
	Exp    any            `json:"exp"`
	UserID domain.ID      `json:"userId"`
	Role   domain.RoleSet `json:"role"`
}

// ParseJWT decodes the claims segment of a three-part token. The header and
// signature are not inspected. Any malformed input yields (nil, false).
func ParseJWT(raw string) (*Claims, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, false
	}
	segment, err := unverifiedParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	var p payload
	dec := json.NewDecoder(bytes.NewReader(segment))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return nil, false
	}

	claims := &Claims{UserID: p.UserID, Role: p.Role}
	switch sub := p.Sub.(type) {
	case string:
		claims.Subject = sub
	case json.Number:
		claims.Subject = sub.String()
	}
	if exp, ok := numericDate(p.Exp); ok {
		claims.ExpiresAt = jwt.NewNumericDate(time.Unix(exp, 0))
	}
	return claims, true
}

func numericDate(v any) (int64, bool) {
	var text string
	switch n := v.(type) {
	case json.Number:
		text = n.String()
	case string:
		text = strings.TrimSpace(n)
	default:
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int64(f), true
}
