// Package templates provides HTML content for transactional email
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
)

// EmailLayoutProps wraps rendered content in the shared email chrome.
type EmailLayoutProps struct {
	Content template.HTML
}

var layoutTemplate = template.Must(template.New("emailLayout").Parse(`<!doctype html>
<html>
  <body style="background-color: #f4f5f7; font-family: Helvetica, sans-serif; font-size: 16px; margin: 0; padding: 0;">
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="100%">
      <tr>
        <td>&nbsp;</td>
        <td style="display: block; max-width: 580px; margin: 0 auto; padding: 24px;">
          <div style="background: #ffffff; border-radius: 8px; padding: 32px;">
            {{.Content}}
          </div>
          <p style="color: #9a9ea6; font-size: 12px; text-align: center; margin-top: 16px;">
            Este es un mensaje autom&aacute;tico, por favor no respondas a este correo.
          </p>
        </td>
        <td>&nbsp;</td>
      </tr>
    </table>
  </body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcomeEmail").Parse(`
<h2 style="margin-top: 0;">&iexcl;Bienvenido, {{.Name}}!</h2>
<p>Tu cuenta fue creada exitosamente. Ya puedes iniciar sesi&oacute;n y completar tus compras.</p>
<p style="color: #6b7280;">Si no creaste esta cuenta, ignora este correo.</p>`))

var orderTemplate = template.Must(template.New("orderEmail").Parse(`
<h2 style="margin-top: 0;">&iexcl;Gracias por tu compra{{if .Name}}, {{.Name}}{{end}}!</h2>
<p>N&uacute;mero de pedido: <strong>{{.OrderNumber}}</strong></p>
<table role="presentation" border="0" cellpadding="4" cellspacing="0" width="100%" style="font-size: 14px;">
  {{range .Lines}}
  <tr>
    <td>{{.Name}} &times; {{.Quantity}}</td>
    <td align="right">{{.Subtotal}}</td>
  </tr>
  {{end}}
  <tr><td style="border-top: 1px solid #e5e7eb;">Subtotal</td><td align="right" style="border-top: 1px solid #e5e7eb;">{{.Subtotal}}</td></tr>
  {{if .Discount}}<tr><td>Descuento (10%)</td><td align="right">-{{.Discount}}</td></tr>{{end}}
  <tr><td>Env&iacute;o</td><td align="right">GRATIS</td></tr>
  <tr><td><strong>Total</strong></td><td align="right"><strong>{{.Total}}</strong></td></tr>
</table>
<p>Recibir&aacute;s una notificaci&oacute;n cuando tu pedido sea enviado.</p>`))

// GetEmailLayout renders the outer email document.
func GetEmailLayout(props EmailLayoutProps) string {
	var buf bytes.Buffer
	if err := layoutTemplate.Execute(&buf, props); err != nil {
		log.Printf("ERROR: email layout render failed: %v", err)
		return string(props.Content)
	}
	return buf.String()
}

// WelcomeEmailProps parameterize the registration welcome message.
type WelcomeEmailProps struct {
	Name string
}

// GetWelcomeEmailContent renders the welcome body.
func GetWelcomeEmailContent(props WelcomeEmailProps) template.HTML {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, props); err != nil {
		log.Printf("ERROR: welcome email render failed: %v", err)
		return ""
	}
	return template.HTML(buf.String())
}

// OrderLine is one cart line rendered in the confirmation table.
type OrderLine struct {
	Name     string
	Quantity int
	Subtotal string
}

// OrderEmailProps parameterize the order confirmation message.
type OrderEmailProps struct {
	Name        string
	OrderNumber string
	Lines       []OrderLine
	Subtotal    string
	Discount    string
	Total       string
}

// GetOrderEmailContent renders the order confirmation body.
func GetOrderEmailContent(props OrderEmailProps) template.HTML {
	var buf bytes.Buffer
	if err := orderTemplate.Execute(&buf, props); err != nil {
		log.Printf("ERROR: order email render failed: %v", err)
		return ""
	}
	return template.HTML(buf.String())
}

// FormatMoney renders an amount the way the storefront displays prices.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
