package notify

import (
	"context"
	"fmt"

	"dev-event-hub/config"
	"dev-event-hub/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

// Message 一封要寄出的信
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// EmailSender 是 *ses.Client 中寄信用到的部分
type EmailSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// NewMailer 依 Provider 建立 mailer；"ses" 使用 AWS SES，其他值一律 noop
func NewMailer(cfg *config.MailConfig) Mailer {
	switch cfg.Provider {
	case "ses":
		awsCfg := aws.Config{Region: cfg.Region}
		if cfg.AccessKeyID != "" {
			awsCfg.Credentials = aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			)
		}
		return NewSESMailer(ses.NewFromConfig(awsCfg), cfg.FromAddress, cfg.FromName)
	case "noop", "":
		return &NoopMailer{}
	default:
		logger.WithComponent("mailer").Warn("Unknown mail provider, using noop", zap.String("provider", cfg.Provider))
		return &NoopMailer{}
	}
}

type SESMailerImpl struct {
	client      EmailSender
	fromAddress string
	fromName    string
}

func NewSESMailer(client EmailSender, fromAddress, fromName string) Mailer {
	return &SESMailerImpl{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

func (m *SESMailerImpl) Send(ctx context.Context, msg Message) error {
	source := m.fromAddress
	if m.fromName != "" {
		source = fmt.Sprintf("%s <%s>", m.fromName, m.fromAddress)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	if msg.HTML != "" {
		input.Message.Body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")}
	}
	if msg.Text != "" {
		input.Message.Body.Text = &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")}
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}

	logger.WithComponent("mailer").Info("Email sent via SES",
		zap.String("to", msg.To),
		zap.String("message_id", aws.ToString(result.MessageId)),
	)
	return nil
}

type NoopMailer struct{}

func (n *NoopMailer) Send(ctx context.Context, msg Message) error {
	logger.WithComponent("mailer").Info("Email would be sent (noop)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
