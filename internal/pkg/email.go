package pkg

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" }

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// InviteHTML 被拉入看板时的通知邮件
func InviteHTML(inviterName, boardName, role string) string {
	return fmt.Sprintf(`<p>您好，</p><p><b>%s</b> 将您加入了看板 <b>%s</b>，角色为 <b>%s</b>。</p><p>登录后即可查看。</p>`,
		inviterName, boardName, role)
}
