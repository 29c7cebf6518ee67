package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	templates   = make(map[string]emailTemplate)
	templatesMu sync.RWMutex
)

type (
	emailTemplate struct {
		text *texttmpl.Template
		html *htmltmpl.Template
	}

	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// RegisterEmailTemplate parses and registers the text and html bodies of a named template.
func RegisterEmailTemplate(name, text, html string) {
	tmpl := emailTemplate{
		text: texttmpl.Must(texttmpl.New(name).Option("missingkey=error").Parse(text)),
	}
	if html != "" {
		tmpl.html = htmltmpl.Must(htmltmpl.New(name).Option("missingkey=error").Parse(html))
	}

	templatesMu.Lock()
	defer templatesMu.Unlock()
	templates[name] = tmpl
}

func (m *EmailMessage) getTemplate() (emailTemplate, bool) {
	templatesMu.RLock()
	defer templatesMu.RUnlock()
	tmpl, ok := templates[m.TemplateName]
	return tmpl, ok
}

func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	} else if m.TemplateName == "" {
		return nil
	}

	tmpl, ok := m.getTemplate()
	if !ok {
		return errors.Errorf("email template %q not registered", m.TemplateName)
	}

	var buff bytes.Buffer
	if err := tmpl.text.Execute(&buff, m.TemplateData); err != nil {
		return errors.Wrap(err, "rendering text content")
	}
	m.TextContent = buff.String()

	if tmpl.html != nil {
		buff.Reset()
		if err := tmpl.html.Execute(&buff, m.TemplateData); err != nil {
			return errors.Wrap(err, "rendering html content")
		}
		m.HTMLContent = buff.String()
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
