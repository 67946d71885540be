// Package userctx carries the signed-in operator through a request context.
package userctx

import "context"

type contextKey string

const operatorKey contextKey = "operator"

// Anonymous is reported when no operator is signed in
const Anonymous = "anonymous"

// Operator identifies the person who signed in through OpenID Connect
type Operator struct {
	ID    string
	Email string
	Name  string
}

// DisplayName returns the friendliest non-empty identifier
func (o Operator) DisplayName() string {
	switch {
	case o.Name != "":
		return o.Name
	case o.Email != "":
		return o.Email
	default:
		return o.ID
	}
}

// WithOperator adds the operator to ctx
func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorKey, op)
}

// GetOperator retrieves the operator from ctx
func GetOperator(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(operatorKey).(Operator)
	return op, ok && op.ID != ""
}

// GetUserEmail returns the operator's email, falling back to ID, or Anonymous
func GetUserEmail(ctx context.Context) string {
	op, ok := GetOperator(ctx)
	if !ok {
		return Anonymous
	}
	if op.Email != "" {
		return op.Email
	}
	return op.ID
}
