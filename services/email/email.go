// Package emailsvc implements core.EmailService.
package emailsvc

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
)

// New picks the email backend for the environment: SendGrid in production, the console otherwise.
func New(conf *core.Config, logger core.Logger) core.EmailService {
	switch {
	case conf.TestMode:
		return NewConsoleServiceMock(conf, logger)
	case conf.Debug || conf.SendgridAPIKey == "":
		return NewConsoleService(conf, logger)
	default:
		return NewSendgridService(conf, logger)
	}
}

var (
	// SentMessages records what the mock service delivered, in order.
	SentMessages = make([]core.EmailMessage, 0)
	sentMu       sync.Mutex
)

// ResetSentMessages empties SentMessages.
func ResetSentMessages() {
	sentMu.Lock()
	SentMessages = make([]core.EmailMessage, 0)
	sentMu.Unlock()
}

func record(msg core.EmailMessage) {
	sentMu.Lock()
	SentMessages = append(SentMessages, msg)
	sentMu.Unlock()
}

// deliver renders msg and hands it to send; messages without recipients or body are dropped.
func deliver(msg *core.EmailMessage, logger core.Logger, send func(core.EmailMessage) error) bool {
	if err := msg.Render(); err != nil {
		logger.Error("emailsvc: rendering", errors.Wrap(err, msg.TemplateName))
		return false
	}
	if !msg.HasRecipients() || !(msg.HasContent() || msg.HasAttachments()) {
		return false
	}
	if err := send(*msg); err != nil {
		logger.Error("emailsvc: sending", errors.Wrap(err, msg.Subject))
		return false
	}
	return true
}
