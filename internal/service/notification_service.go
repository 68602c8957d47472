package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/events"
	"github.com/vnshop/storefront/internal/repository"
)

// Mail is a message the devserver would have sent.
type Mail struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Outbox keeps every mail in memory so developers and tests can read them.
type Outbox struct {
	mu    sync.Mutex
	mails []Mail
}

// Deliver records a mail.
func (o *Outbox) Deliver(mail Mail) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mails = append(o.mails, mail)
}

// Sent returns the mails delivered so far.
func (o *Outbox) Sent() []Mail {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Mail(nil), o.mails...)
}

// NotificationService turns devserver events into emails.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	outbox     *Outbox
	from       string
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, outbox *Outbox, from string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		outbox:     outbox,
		from:       from,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountRegistered, n.handleAccountRegistered)
	n.dispatcher.Subscribe(events.EventOrderStatusChanged, n.handleOrderStatusChanged)
}

func (n *NotificationService) handleAccountRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.send(ctx, Mail{
		To:      payload.Email,
		Subject: "Confirm your storefront account",
		Body: fmt.Sprintf("Hello %s,\n\nConfirm your email with this code: %s\n",
			payload.Username, payload.SecretCode),
	})
	return nil
}

func (n *NotificationService) handleOrderStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	account, err := n.users.GetByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("load customer %d: %w", payload.UserID, err)
	}
	n.send(ctx, Mail{
		To:      account.Email,
		Subject: fmt.Sprintf("Order %s is now %s", payload.OrderCode, strings.ToLower(string(payload.NewStatus))),
		Body: fmt.Sprintf("Your order %s changed from %s to %s.\n",
			payload.OrderCode, payload.OldStatus, payload.NewStatus),
	})
	return nil
}

func (n *NotificationService) send(_ context.Context, mail Mail) {
	if strings.TrimSpace(n.from) == "" || mail.To == "" {
		return
	}
	mail.From = n.from
	if n.outbox != nil {
		n.outbox.Deliver(mail)
	}
	n.logger.Info("mail sent", zap.String("to", mail.To), zap.String("subject", mail.Subject))
}
