package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

const welcomeTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">{{.SiteName}}</h2>
  <p>Szia {{.Name}}! Köszönjük, hogy feliratkoztál a hírlevelünkre.</p>
  <p>A kiválasztott témák: <strong>{{.Categories}}</strong></p>
  <p style="color:#999;font-size:12px;margin-top:24px">
    Ha le szeretnél iratkozni, kattints <a href="{{.UnsubscribeURL}}">ide</a>.
  </p>
</div>
</body>
</html>`

const campaignTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">{{.Subject}}</h2>
  <div style="font-size:14px;line-height:24px;color:#111">{{.Body}}</div>
  <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
  <p style="font-size:10px;line-height:20px;text-align:center;color:rgb(156,163,175)">
    Ezt a levelet a {{.SiteName}} hírlevél-rendszere küldte.
    {{if .UnsubscribeURL}}<br /><a href="{{.UnsubscribeURL}}" style="color:rgb(156,163,175)">Leiratkozás</a>{{end}}
    <br />©{{year}} {{.SiteName}}
  </p>
</div>
</body>
</html>`

const eventConfirmTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">{{.EventTitle}}</h2>
  <p>Szia {{.Name}}! A regisztrációdat rögzítettük.</p>
  <p><strong>Időpont:</strong> {{.StartsAt}}<br /><strong>Helyszín:</strong> {{.Location}}</p>
  <p style="color:#999;font-size:12px;margin-top:24px">A levélre nem szükséges válaszolni.</p>
</div>
</body>
</html>`

// WelcomeData is the data for the subscription welcome email.
type WelcomeData struct {
	SiteName       string
	Name           string
	Categories     string
	UnsubscribeURL string
}

// CampaignData is the data for a single newsletter campaign email.
type CampaignData struct {
	SiteName       string
	Subject        string
	Body           template.HTML
	UnsubscribeURL string
}

// EventConfirmData is the data for an event registration confirmation.
type EventConfirmData struct {
	Name       string
	EventTitle string
	StartsAt   string
	Location   string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int { return time.Now().Year() },
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendWelcome sends the post-subscribe welcome email.
func (s *Sender) SendWelcome(to string, data WelcomeData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "Agora"
	}
	html, err := renderTemplate(welcomeTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Sikeres feliratkozás", data.SiteName),
		HTML:    html,
	})
}

// SendCampaign sends one rendered campaign email to a single recipient.
func (s *Sender) SendCampaign(to string, data CampaignData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "Agora"
	}
	html, err := renderTemplate(campaignTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: data.Subject,
		HTML:    html,
	})
}

// SendEventConfirmation sends an event registration confirmation.
func (s *Sender) SendEventConfirmation(to string, data EventConfirmData) error {
	html, err := renderTemplate(eventConfirmTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Regisztráció visszaigazolás: %s", data.EventTitle),
		HTML:    html,
	})
}
