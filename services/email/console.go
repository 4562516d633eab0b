package emailsvc

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
)

// consoleService logs the MIME form of each message instead of sending it.
type consoleService struct {
	from          mail.Address
	subjectPrefix string
	quiet         bool
	logger        core.Logger
}

var _ core.EmailService = (*consoleService)(nil)

func newConsoleService(conf *core.Config, logger core.Logger, quiet bool) consoleService {
	return consoleService{
		from:          conf.DefaultFromEmail,
		subjectPrefix: "[" + conf.AppName + "] ",
		quiet:         quiet,
		logger:        logger,
	}
}

func NewConsoleService(conf *core.Config, logger core.Logger) core.EmailService {
	svc := newConsoleService(conf, logger, false)
	return &svc
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go deliver(msg, svc.logger, svc.send)
	}
}

func (svc *consoleService) send(msg core.EmailMessage) error {
	var b strings.Builder
	if err := svc.writeMIME(&b, msg); err != nil {
		return err
	}
	if !svc.quiet {
		svc.logger.Info(b.String())
	}
	return nil
}

func (svc *consoleService) writeMIME(w io.Writer, msg core.EmailMessage) error {
	header := []struct{ key, value string }{
		{"From", svc.from.String()},
		{"To", joinAddresses(msg.To)},
		{"Cc", joinAddresses(msg.Cc)},
		{"Bcc", joinAddresses(msg.Bcc)},
		{"Subject", mime.QEncoding.Encode("utf-8", svc.subjectPrefix+msg.Subject)},
		{"Date", time.Now().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
	}
	for _, h := range header {
		if h.value != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\r\n", h.key, h.value)
		}
	}

	root := multipart.NewWriter(w)
	rootType := "multipart/alternative"
	if msg.HasAttachments() {
		rootType = "multipart/mixed"
	}
	_, _ = fmt.Fprintf(w, "Content-Type: %s; boundary=%s\r\n\r\n", rootType, root.Boundary())

	body := root
	if msg.HasAttachments() {
		alt := multipart.NewWriter(io.Discard)
		part, err := root.CreatePart(textproto.MIMEHeader{
			"Content-Type": {"multipart/alternative; boundary=" + alt.Boundary()},
		})
		if err != nil {
			return errors.Wrap(err, "creating alternative part")
		}
		body = multipart.NewWriter(part)
		if err = body.SetBoundary(alt.Boundary()); err != nil {
			return err
		}
	}

	if err := writePart(body, "text/plain; charset=utf-8", "", msg.TextContent); err != nil {
		return err
	}
	if msg.HTMLContent != "" {
		if err := writePart(body, "text/html; charset=utf-8", "", msg.HTMLContent); err != nil {
			return err
		}
	}
	if body != root {
		if err := body.Close(); err != nil {
			return err
		}
		for _, at := range msg.Attachments {
			if err := writePart(root, at.ContentType, at.Filename, at.Content.String()); err != nil {
				return err
			}
		}
	}
	return root.Close()
}

// writePart adds one part; a filename makes it a base64 attachment.
func writePart(mw *multipart.Writer, contentType, filename, content string) error {
	h := textproto.MIMEHeader{"Content-Type": {contentType}}
	if filename != "" {
		h.Set("Content-Transfer-Encoding", "base64")
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return errors.Wrapf(err, "creating %s part", contentType)
	}
	_, err = io.WriteString(part, content+"\r\n")
	return err
}

func joinAddresses(addrs []mail.Address) string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return strings.Join(out, ", ")
}

// consoleServiceMock delivers synchronously and silently, recording every message in SentMessages.
type consoleServiceMock struct {
	consoleService
}

func NewConsoleServiceMock(conf *core.Config, logger core.Logger) core.EmailService {
	return &consoleServiceMock{newConsoleService(conf, logger, true)}
}

func (svc *consoleServiceMock) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		deliver(msg, svc.logger, func(m core.EmailMessage) error {
			if err := svc.send(m); err != nil {
				return err
			}
			record(m)
			return nil
		})
	}
}
