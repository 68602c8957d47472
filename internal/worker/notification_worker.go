// Package worker hosts the devserver's background subscribers.
package worker

import (
	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/events"
	"github.com/vnshop/storefront/internal/repository"
	"github.com/vnshop/storefront/internal/service"
)

// StartNotificationWorker subscribes the mailer to account and order events and
// returns the outbox it delivers to.
func StartNotificationWorker(dispatcher events.Dispatcher, users repository.UserRepository, from string, logger *zap.Logger) *service.Outbox {
	outbox := &service.Outbox{}
	if dispatcher == nil {
		return outbox
	}
	service.NewNotificationService(dispatcher, users, outbox, from, logger.Named("mailer")).RegisterHandlers()
	logger.Debug("notification worker started", zap.String("from", from))
	return outbox
}
