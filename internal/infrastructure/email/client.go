// Package email provides transactional email delivery via Resend
package email

import (
	"fmt"
	"html/template"
	"os"

	"github.com/motonorte/storefront-go/internal/domain/entities/checkout"
	"github.com/motonorte/storefront-go/internal/infrastructure/email/templates"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service delivers storefront transactional email.
type Service interface {
	SendWelcomeEmail(toEmail, toName string) error
	SendOrderConfirmationEmail(toEmail string, order *checkout.Order) error
}

// ResendClient implements Service using the Resend API.
type ResendClient struct {
	client   *resend.Client
	fromAddr string
	fromName string
	logger   *logging.ChanneledLogger
}

// NewService returns a Resend-backed service when RESEND_API_KEY is
// configured, and a logging no-op otherwise.
func NewService(logger *logging.ChanneledLogger) Service {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		logger.Email().Info("RESEND_API_KEY not set, email delivery disabled")
		return &noopClient{logger: logger}
	}
	return &ResendClient{
		client:   resend.NewClient(apiKey),
		fromAddr: config.EmailFrom,
		fromName: config.EmailFromName,
		logger:   logger,
	}
}

func (c *ResendClient) send(toEmail, subject string, content template.HTML) error {
	html := templates.GetEmailLayout(templates.EmailLayoutProps{Content: content})
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromAddr),
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}
	sent, err := c.client.Emails.Send(params)
	if err != nil {
		c.logger.Email().Error("Email send failed", "to", toEmail, "subject", subject, "error", err.Error())
		return fmt.Errorf("failed to send email: %w", err)
	}
	c.logger.Email().Info("Email sent", "to", toEmail, "subject", subject, "id", sent.Id)
	return nil
}

// SendWelcomeEmail greets a newly registered account.
func (c *ResendClient) SendWelcomeEmail(toEmail, toName string) error {
	content := templates.GetWelcomeEmailContent(templates.WelcomeEmailProps{Name: toName})
	return c.send(toEmail, "Bienvenido a MotoNorte", content)
}

// SendOrderConfirmationEmail confirms a completed purchase.
func (c *ResendClient) SendOrderConfirmationEmail(toEmail string, order *checkout.Order) error {
	lines := make([]templates.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, templates.OrderLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Subtotal: templates.FormatMoney(item.Subtotal()),
		})
	}
	props := templates.OrderEmailProps{
		Name:        order.CustomerName,
		OrderNumber: order.Number,
		Lines:       lines,
		Subtotal:    templates.FormatMoney(order.Totals.Subtotal),
		Total:       templates.FormatMoney(order.Totals.Total),
	}
	if order.Totals.Discount > 0 {
		props.Discount = templates.FormatMoney(order.Totals.Discount)
	}
	content := templates.GetOrderEmailContent(props)
	return c.send(toEmail, fmt.Sprintf("Confirmación de pedido %s", order.Number), content)
}

type noopClient struct {
	logger *logging.ChanneledLogger
}

func (c *noopClient) SendWelcomeEmail(toEmail, toName string) error {
	c.logger.Email().Debug("Skipping welcome email, delivery disabled", "to", toEmail)
	return nil
}

func (c *noopClient) SendOrderConfirmationEmail(toEmail string, order *checkout.Order) error {
	c.logger.Email().Debug("Skipping order confirmation email, delivery disabled", "to", toEmail, "order", order.Number)
	return nil
}
