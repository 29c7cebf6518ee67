package leave

import (
	"net/mail"

	"github.com/trezcool/hrms/core"
)

const decisionTemplate = "leave_decision"

func init() {
	core.RegisterEmailTemplate(decisionTemplate,
		`Hello {{.Name}},

Your {{.Request.LeaveType}} leave request from {{.Request.StartDate}} to {{.Request.EndDate}} has been {{.Request.Status}}.
{{if .Request.AdminComment}}
Comment: {{.Request.AdminComment}}
{{end}}`,
		`<p>Hello {{.Name}},</p>
<p>Your {{.Request.LeaveType}} leave request from {{.Request.StartDate}} to {{.Request.EndDate}} has been <strong>{{.Request.Status}}</strong>.</p>
{{if .Request.AdminComment}}<p>Comment: {{.Request.AdminComment}}</p>{{end}}`,
	)
}

func decisionMessage(to mail.Address, req Request) *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      "Leave request " + req.Status,
		TemplateName: decisionTemplate,
		TemplateData: map[string]interface{}{
			"Name":    to.Name,
			"Request": req,
		},
	}
}
