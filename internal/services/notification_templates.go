package services

import (
	"bytes"
	"fmt"
	"html/template"

	"seatshare/internal/models"
)

type emailContent struct {
	Subject string
	Body    *template.Template
	SMS     string
}

var bookingEmails = map[models.BookingEventType]emailContent{
	models.BookingEventCreated: {
		Subject: "New Booking Received 🚗",
		Body: template.Must(template.New("booking_created").Parse(`
<h2>Hello {{.RecipientName}},</h2>
<p>You have a new booking for your ride from <strong>{{.From}}</strong> to <strong>{{.To}}</strong>.</p>
<p><strong>Pickup:</strong> {{.Pickup}}</p>
<p><strong>Drop:</strong> {{.Drop}}</p>
<p><strong>Total Seats Booked:</strong> {{.TotalSeats}}</p>
<p><strong>Total Fare:</strong> {{.Fare}}</p>
<br/>
<p>Login to your dashboard to view full booking details.</p>
`)),
		SMS: "New booking: %d seat(s) from %s to %s on %s. Check your dashboard.",
	},
	models.BookingEventConfirmed: {
		Subject: "Your Booking is Confirmed ✅",
		Body: template.Must(template.New("booking_confirmed").Parse(`
<h2>Hello {{.RecipientName}},</h2>
<p>Your booking for the ride from <strong>{{.From}}</strong> to <strong>{{.To}}</strong> has been <strong style="color:green;">confirmed</strong> by the driver <strong>{{.DriverName}}</strong>.</p>
<p><strong>Pickup:</strong> {{.Pickup}}</p>
<p><strong>Drop:</strong> {{.Drop}}</p>
<p><strong>Total Seats:</strong> {{.TotalSeats}}</p>
<p><strong>Total Fare:</strong> {{.Fare}}</p>
<br/>
<p>Enjoy your ride! 🚗</p>
`)),
		SMS: "Your booking of %d seat(s) from %s to %s on %s is confirmed.",
	},
	models.BookingEventRejected: {
		Subject: "Your Booking was Rejected ❌",
		Body: template.Must(template.New("booking_rejected").Parse(`
<h2>Hello {{.RecipientName}},</h2>
<p>Unfortunately, your booking for the ride from <strong>{{.From}}</strong> to <strong>{{.To}}</strong> has been <strong style="color:red;">rejected</strong> by the driver <strong>{{.DriverName}}</strong>.</p>
<p>If you made a payment, it will be reviewed shortly.</p>
<p>You can try booking another ride.</p>
`)),
		SMS: "Your booking of %d seat(s) from %s to %s on %s was rejected.",
	},
}

type emailData struct {
	RecipientName string
	DriverName    string
	From          string
	To            string
	Pickup        string
	Drop          string
	TotalSeats    int
	Fare          string
}

func renderEmail(content emailContent, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := content.Body.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", content.Body.Name(), err)
	}
	return buf.String(), nil
}
