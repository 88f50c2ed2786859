package auth

import "context"

type ctxKey string

const ownerKey ctxKey = "owner"

// Owner is the signed-in user; every record is scoped to Owner.ID.
type Owner struct {
	ID    string
	Email string
	Name  string
}

func WithOwner(ctx context.Context, owner Owner) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

func OwnerFromContext(ctx context.Context) (Owner, bool) {
	owner, ok := ctx.Value(ownerKey).(Owner)
	return owner, ok && owner.ID != ""
}

// GetOwnerID returns the owner id placed by the middleware, or "".
func GetOwnerID(ctx context.Context) string {
	owner, _ := OwnerFromContext(ctx)
	return owner.ID
}
