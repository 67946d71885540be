// Package authenticator wraps the OpenID Connect login used to identify
// operators who upload log files.
package authenticator

import (
	"context"
	"errors"

	"github.com/blogem/access-log-viewer/userctx"
)

// ErrNoIDToken is returned when the token response carries no id_token
var ErrNoIDToken = errors.New("no id_token in token")

// Token represents an authentication token
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       int64
}

// Claims represents user claims from the ID token
type Claims map[string]interface{}

func (c Claims) str(key string) string {
	s, _ := c[key].(string)
	return s
}

// Operator maps the standard claims onto the operator identity.
// The display name prefers nickname, then name, then email.
func (c Claims) Operator() (userctx.Operator, error) {
	op := userctx.Operator{ID: c.str("sub"), Email: c.str("email")}
	if op.ID == "" {
		return op, errors.New("id token has no subject")
	}

	for _, key := range []string{"nickname", "name"} {
		if v := c.str(key); v != "" {
			op.Name = v
			break
		}
	}
	return op, nil
}

// Provider abstracts the OAuth2 authorization-code flow
type Provider interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	GetClaims(ctx context.Context, token *Token) (Claims, error)
}
