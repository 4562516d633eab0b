package core

import (
	"bytes"
	"encoding/base64"
	htmltmpl "html/template"
	"io"
	"io/fs"
	"net/http"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"

	appfs "github.com/trezcool/tutoria/fs"
)

const emailTemplatesDir = "templates/email"

// emailTemplate is the parsed pair for one template name; either side may be missing.
type emailTemplate struct {
	text *texttmpl.Template
	html *htmltmpl.Template
}

var (
	tmplMu          sync.RWMutex
	emailTemplates  = make(map[string]emailTemplate)
	frontendBaseURL string
)

type (
	Attachment struct {
		Content     *bytes.Buffer // base64
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // plain text, used instead of the text template
		Attachments []Attachment

		TemplateName string // without extension
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// ContextData is what the templates see: {{.FrontendBaseURL}} and {{.Data}}.
	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render fills TextContent and HTMLContent from BodyStr and the named templates.
func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}

	tmplMu.RLock()
	tmpl, ok := emailTemplates[m.TemplateName]
	base := frontendBaseURL
	tmplMu.RUnlock()
	if !ok {
		return errors.Errorf("unknown email template %q", m.TemplateName)
	}

	data := ContextData{FrontendBaseURL: base, Data: m.TemplateData}
	var buf bytes.Buffer
	if tmpl.text != nil && m.BodyStr == "" {
		if err := tmpl.text.Execute(&buf, data); err != nil {
			return errors.Wrap(err, m.TemplateName+".txt")
		}
		m.TextContent = buf.String()
		buf.Reset()
	}
	if tmpl.html != nil {
		if err := tmpl.html.Execute(&buf, data); err != nil {
			return errors.Wrap(err, m.TemplateName+".gohtml")
		}
		m.HTMLContent = buf.String()
	}
	return nil
}

func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	at := Attachment{Filename: filename, Content: new(bytes.Buffer)}
	encoder := base64.NewEncoder(base64.StdEncoding, at.Content)
	if _, err := encoder.Write(content); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

// ParseEmailTemplates loads the embedded email templates, each wrapped in the `_base` layout of its kind.
// Must be called once at startup, before any templated message is rendered.
func ParseEmailTemplates(conf *Config, logger Logger) {
	strict := conf.Debug || conf.TestMode
	parsed := make(map[string]emailTemplate)

	paths, err := fs.Glob(appfs.FS, path.Join(emailTemplatesDir, "*"))
	if err != nil {
		logger.Error("core.ParseEmailTemplates", err)
		return
	}
	for _, fp := range paths {
		fname := path.Base(fp)
		ext := path.Ext(fname)
		if strings.HasPrefix(fname, "_") {
			continue
		}
		name := strings.TrimSuffix(fname, ext)
		tmpl := parsed[name]
		base := path.Join(emailTemplatesDir, "_base"+ext)

		switch ext {
		case ".txt":
			t, err := texttmpl.ParseFS(appfs.FS, base, fp)
			if err != nil {
				logger.Error("core.ParseEmailTemplates", errors.Wrap(err, fp))
				continue
			}
			if strict {
				t = t.Option("missingkey=error")
			}
			tmpl.text = t
		case ".gohtml":
			t, err := htmltmpl.ParseFS(appfs.FS, base, fp)
			if err != nil {
				logger.Error("core.ParseEmailTemplates", errors.Wrap(err, fp))
				continue
			}
			if strict {
				t = t.Option("missingkey=error")
			}
			tmpl.html = t
		default:
			continue
		}
		parsed[name] = tmpl
	}

	tmplMu.Lock()
	emailTemplates = parsed
	frontendBaseURL = conf.FrontendBaseURL
	tmplMu.Unlock()
}
