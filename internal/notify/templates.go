package notify

import (
	"bytes"
	"html/template"

	"mm-tickets/models"
)

var ticketConfirmationTmpl = template.Must(template.New("ticket_confirmation").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="color-scheme" content="dark light" />
  <title>Access Confirmed: {{.Event.Title}}</title>
  <style>
    body { background-color: #000000; color: #c0c0c0; font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; }
    .container { max-width: 600px; margin: 0 auto; padding: 40px 20px; }
    .card { background-color: #111111; border-radius: 8px; padding: 30px; }
    .accent { color: #00ff00; }
    .divider { border: none; border-top: 1px solid #333; margin: 24px 0; }
    code { color: #00ff00; font-size: 20px; font-weight: bold; }
  </style>
</head>
<body>
  <div class="container" style="text-align: center;">
    <h1 style="font-size: 24px; font-weight: 900; letter-spacing: 2px;" class="accent">ACCESS GRANTED</h1>
  </div>
  <div class="container">
    <div class="card">
      <h2 class="accent" style="font-size: 18px; text-transform: uppercase;">{{.Event.Title}}</h2>
      <p style="font-size: 14px; margin-top: 10px;">{{.Event.Date}} &mdash; {{.Event.Venue}}</p>
      <hr class="divider" />
      <h3 style="font-size: 16px; text-transform: uppercase;">Ticket Code</h3>
      <div style="margin: 16px 0; border: 1px solid #00ff00; background-color: #000000; padding: 12px; border-radius: 6px; text-align: center;">
        <code>{{.Ticket.Code}}</code>
      </div>
      <p style="font-size: 14px;">Ticket: {{.Ticket.TicketType}} &times; {{.Ticket.Quantity}}</p>
      {{if .Ticket.PromoCode}}<p style="font-size: 14px;">Promo {{.Ticket.PromoCode}}: &minus;GHS {{.Ticket.DiscountAmount}}</p>{{end}}
      <p style="font-size: 14px;">Amount Paid: <span class="accent">GHS {{.Ticket.FinalPrice}}</span></p>
      <p style="margin-top: 24px; font-size: 13px; color: #888;">
        Keep this code safe. It will be required for entry verification at the gate.
      </p>
    </div>
  </div>
</body>
</html>
`))

var manualPaymentAlertTmpl = template.Must(template.New("manual_payment_alert").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8" /><title>Manual Payment Pending</title></head>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Manual payment awaiting review</h2>
  <p>A mobile-money payment for {{.Event.Title}} was submitted and needs confirmation.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><b>Reference code</b></td><td><code>{{.Payment.ReferenceCode}}</code></td></tr>
    <tr><td><b>Name</b></td><td>{{.Payment.Name}}</td></tr>
    <tr><td><b>Email</b></td><td>{{.Payment.Email}}</td></tr>
    <tr><td><b>Phone</b></td><td>{{.Payment.Phone}}</td></tr>
    <tr><td><b>MoMo number</b></td><td>{{.Payment.MomoNumber}}</td></tr>
    <tr><td><b>Ticket</b></td><td>{{.Payment.TicketType}} &times; {{.Payment.Quantity}}</td></tr>
    <tr><td><b>Expected amount</b></td><td>GHS {{.Payment.FinalPrice}}</td></tr>
    {{if .Payment.PromoCode}}<tr><td><b>Promo</b></td><td>{{.Payment.PromoCode}} (&minus;GHS {{.Payment.DiscountAmount}})</td></tr>{{end}}
  </table>
  <p>Confirm or reject it from the admin dashboard once the transfer shows up.</p>
</body>
</html>
`))

func renderTicketConfirmation(t *models.Ticket, event EventInfo) (string, error) {
	var buf bytes.Buffer
	err := ticketConfirmationTmpl.Execute(&buf, struct {
		Ticket *models.Ticket
		Event  EventInfo
	}{t, event})
	return buf.String(), err
}

func renderManualPaymentAlert(mp *models.ManualPayment, event EventInfo) (string, error) {
	var buf bytes.Buffer
	err := manualPaymentAlertTmpl.Execute(&buf, struct {
		Payment *models.ManualPayment
		Event   EventInfo
	}{mp, event})
	return buf.String(), err
}
