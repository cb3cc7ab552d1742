package operator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage writeStorage
	queue   chan ActionItem
	logger  *logrus.Logger
}

type writeStorage interface {
	Write(ctx context.Context) (*storage.Writer, error)
}

func NewOperator(s writeStorage, queue chan ActionItem, logger *logrus.Logger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

// processItem runs the action in its own transaction. The transaction is
// committed only when Perform succeeds and rolled back on every other path.
func (o *Operator) processItem(item ActionItem) (err error) {
	if err = item.ctx.Err(); err != nil {
		return err
	}

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operator: action panicked: %v", r)
		}
		if committed {
			return
		}
		if rollbackErr := writer.Rollback(); rollbackErr != nil {
			o.logger.WithError(rollbackErr).WithField("action", fmt.Sprintf("%T", item.action)).
				Warn("Operator.processItem.rollback failed")
		}
	}()

	if err = item.action.Perform(item.ctx, writer); err != nil {
		return err
	}

	committed = true
	return writer.Commit()
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
