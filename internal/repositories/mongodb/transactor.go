package mongodb

import (
	"context"

	"seatshare/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

type transactor struct {
	client  *mongo.Client
	enabled bool
}

// NewTransactor returns a Transactor backed by MongoDB sessions. With enabled
// false (standalone servers) fn runs directly and callers rely on their own
// compensation.
func NewTransactor(client *mongo.Client, enabled bool) interfaces.Transactor {
	return &transactor{client: client, enabled: enabled}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled || t.client == nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
