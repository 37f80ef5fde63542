package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig SMTP 发信配置
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Send 同步发送一封 HTML 邮件
// 调用方负责失败处理（邀请通知这类发信全部是尽力而为，只记日志不向上冒泡）
func Send(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return d.DialAndSend(m)
}

// InvitationHTML 生成社区邀请邮件正文
func InvitationHTML(inviterName, communityName, message, joinURL string) string {
	extra := ""
	if message != "" {
		extra = fmt.Sprintf(`<p>%s</p>`, message)
	}
	return fmt.Sprintf(
		`<p>您好，</p><p><b>%s</b> 邀请您加入社区 <b>%s</b>。</p>%s<p>点击链接加入：<a href="%s">%s</a></p>`,
		inviterName, communityName, extra, joinURL, joinURL,
	)
}
