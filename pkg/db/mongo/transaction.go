package mongo

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// codeIllegalOperation is what a standalone server answers when asked to run
// a multi-document transaction.
const codeIllegalOperation = 20

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{client: client}
}

// ExecuteTransaction runs fn inside a session transaction. On a standalone
// server, which cannot run transactions, fn is retried once inside a plain
// session. AppErrors returned by fn pass through untouched so handlers can
// still map them to statuses.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	if transactionsUnsupported(err) {
		err = mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
			return fn(sessCtx)
		})
	}

	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	default:
		return fmt.Errorf("transaction failed: %w", err)
	}
}

func transactionsUnsupported(err error) bool {
	var serverErr mongo.ServerError
	return errors.As(err, &serverErr) && serverErr.HasErrorCode(codeIllegalOperation)
}
