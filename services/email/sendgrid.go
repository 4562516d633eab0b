package emailsvc

import (
	"net/http"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/tutoria/core"
)

const sendgridCategory = "tutoria"

type sendgridService struct {
	client        *sendgrid.Client
	from          *sgmail.Email
	subjectPrefix string
	logger        core.Logger
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config, logger core.Logger) *sendgridService {
	return &sendgridService{
		client:        sendgrid.NewSendClient(conf.SendgridAPIKey),
		from:          sgAddress(conf.DefaultFromEmail),
		subjectPrefix: "[" + conf.AppName + "] ",
		logger:        logger,
	}
}

// SendMessages sends each message on its own goroutine; failures are only logged.
func (svc *sendgridService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go deliver(msg, svc.logger, svc.send)
	}
}

func (svc *sendgridService) send(msg core.EmailMessage) error {
	res, err := svc.client.Send(svc.newMail(msg))
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (svc *sendgridService) newMail(msg core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjectPrefix + msg.Subject
	p.AddTos(sgAddresses(msg.To)...)
	if len(msg.Cc) > 0 {
		p.AddCCs(sgAddresses(msg.Cc)...)
	}
	if len(msg.Bcc) > 0 {
		p.AddBCCs(sgAddresses(msg.Bcc)...)
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	m.AddCategories(sendgridCategory)
	if msg.TemplateName != "" {
		m.AddCategories(msg.TemplateName)
	}

	// SendGrid rejects empty content values; text/plain must come first.
	if msg.TextContent != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	}
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	for _, at := range msg.Attachments {
		m.AddAttachment(&sgmail.Attachment{
			Content:     at.Content.String(),
			Type:        at.ContentType,
			Filename:    at.Filename,
			Disposition: "attachment",
		})
	}
	return m
}

func sgAddress(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}

func sgAddresses(addrs []mail.Address) []*sgmail.Email {
	out := make([]*sgmail.Email, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, sgAddress(a))
	}
	return out
}
