package auth

import (
	"context"
	"errors"

	"eventhub/internal/common"
	"eventhub/internal/server/models"
)

// UserSource is the read side of the user store needed for identity
// resolution: a single point read by email.
type UserSource interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// IdentityResolver turns an inbound bearer token into the user it asserts,
// or a well-defined failure. It is the only component allowed to combine
// token decoding with user lookup.
type IdentityResolver struct {
	codec *TokenCodec
	users UserSource
}

func NewIdentityResolver(codec *TokenCodec, users UserSource) *IdentityResolver {
	return &IdentityResolver{codec: codec, users: users}
}

// Resolve decodes the token and looks its subject up in the user store.
// An unknown subject is reported the same way as any other authentication
// failure so that "token forged" and "user deleted after issue" cannot be
// told apart by callers.
func (r *IdentityResolver) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := r.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := r.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}
