package servicetest

import (
	"context"
	"sync"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
	"github.com/jobboard-dev/jobboard/backend/internal/service"
)

var _ service.Notifier = (*Notifier)(nil)

// Notifier records every published mail message. Err, when set, is returned from Notify.
type Notifier struct {
	mu       sync.Mutex
	Err      error
	messages []domain.MailMessage
}

func (n *Notifier) Notify(_ context.Context, msg domain.MailMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Err != nil {
		return n.Err
	}
	n.messages = append(n.messages, msg)
	return nil
}

func (n *Notifier) Messages() []domain.MailMessage {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]domain.MailMessage(nil), n.messages...)
}
