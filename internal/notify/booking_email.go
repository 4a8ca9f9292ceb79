package notify

import (
	"fmt"
	"html"

	"dev-event-hub/internal/model"
)

// BookingConfirmation 組出報名確認信
func BookingConfirmation(n *model.BookingNotification) Message {
	subject := fmt.Sprintf("You're booked: %s", n.EventTitle)

	text := fmt.Sprintf(
		"Thanks for booking %s.\n\nDate: %s\nTime: %s\nBooking ID: %s\n",
		n.EventTitle, n.EventDate, n.EventTime, n.BookingID,
	)

	body := fmt.Sprintf(
		"<p>Thanks for booking <strong>%s</strong>.</p><ul><li>Date: %s</li><li>Time: %s</li><li>Booking ID: %s</li></ul>",
		html.EscapeString(n.EventTitle),
		html.EscapeString(n.EventDate),
		html.EscapeString(n.EventTime),
		n.BookingID,
	)

	return Message{
		To:      n.Email,
		Subject: subject,
		HTML:    body,
		Text:    text,
	}
}
