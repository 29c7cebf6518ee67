package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/tests"
)

func TestNewService(t *testing.T) {
	logger := testutil.NewLogger(t)

	tests := []struct {
		name         string
		key          string
		debug        bool
		wantSendgrid bool
	}{
		{name: "no key", debug: false},
		{name: "debug", key: "SG.key", debug: true},
		{name: "sendgrid", key: "SG.key", debug: false, wantSendgrid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := testutil.NewConfig(t)
			conf.SendgridAPIKey = tt.key
			conf.Debug = tt.debug

			svc := NewService(conf, logger)
			_, isSendgrid := svc.(*sendgridService)
			assert.Equal(t, tt.wantSendgrid, isSendgrid)
		})
	}
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf := testutil.NewConfig(t)
	svc := NewConsoleServiceMock(conf, testutil.NewLogger(t))
	core.RegisterEmailTemplate("greeting", "Hello {{.Name}}", "<p>Hello {{.Name}}</p>")

	to := []mail.Address{{Name: "John Smith", Address: "john@company.com"}}
	tests := []struct {
		name     string
		msg      core.EmailMessage
		wantSent bool
		wantText string
		wantHTML string
	}{
		{
			name:     "plain body",
			msg:      core.EmailMessage{To: to, Subject: "Hi", BodyStr: "Hi John"},
			wantSent: true,
			wantText: "Hi John",
		},
		{
			name:     "template",
			msg:      core.EmailMessage{To: to, Subject: "Hi", TemplateName: "greeting", TemplateData: map[string]string{"Name": "John"}},
			wantSent: true,
			wantText: "Hello John",
			wantHTML: "<p>Hello John</p>",
		},
		{name: "no recipient", msg: core.EmailMessage{Subject: "Hi", BodyStr: "Hi John"}},
		{name: "no content", msg: core.EmailMessage{To: to, Subject: "Hi"}},
		{name: "unknown template", msg: core.EmailMessage{To: to, Subject: "Hi", TemplateName: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetSentMessages()
			msg := tt.msg
			svc.SendMessages(&msg)

			sent := Sent()
			if !tt.wantSent {
				assert.Empty(t, sent)
				return
			}
			require.Len(t, sent, 1)
			assert.Equal(t, tt.wantText, sent[0].TextContent)
			assert.Equal(t, tt.wantHTML, sent[0].HTMLContent)
		})
	}
}

func TestSendgridService_prepare(t *testing.T) {
	conf := testutil.NewConfig(t)
	conf.SendgridAPIKey = "SG.key"
	svc := NewSendgridService(conf, testutil.NewLogger(t)).(*sendgridService)

	m := svc.prepare(core.EmailMessage{
		To:          []mail.Address{{Name: "Jane Doe", Address: "jane@company.com"}},
		Cc:          []mail.Address{{Address: "admin@company.com"}},
		Subject:     "Leave approved",
		TextContent: "text",
		HTMLContent: "<p>html</p>",
	})

	assert.Equal(t, conf.DefaultFromEmail, m.From.Address)
	require.Len(t, m.Personalizations, 1)
	p := m.Personalizations[0]
	assert.Equal(t, "[HRMS] Leave approved", p.Subject)
	require.Len(t, p.To, 1)
	assert.Equal(t, "jane@company.com", p.To[0].Address)
	require.Len(t, p.CC, 1)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "text/html", m.Content[1].Type)
}
