package service

import (
	"context"
	"fmt"
	"time"

	"divecenter-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(ctx context.Context, toEmail, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	logger.ExternalServiceCall("sendgrid", "send", "to", toEmail, "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendOverdueRentalReminder(ctx context.Context, email, customerName, equipmentDesc string, dueDate time.Time) error {
	subject := "Rental equipment overdue"
	body := fmt.Sprintf("Hello %s,\n\nThe equipment you rented (%s) was due back on %s. Please return it to the dive center as soon as possible.\n\nThank you,\nYour dive center team",
		customerName, equipmentDesc, dueDate.Format("2006-01-02"))
	return s.send(ctx, email, customerName, subject, body)
}

func (s *emailService) SendDamageChargeNotice(ctx context.Context, email, customerName, equipmentDesc string, amountCents int32) error {
	subject := "Equipment damage charge"
	body := fmt.Sprintf("Hello %s,\n\nA damage charge of %.2f was applied for the equipment you rented (%s). It will appear on your invoice.\n\nThank you,\nYour dive center team",
		customerName, float64(amountCents)/100, equipmentDesc)
	return s.send(ctx, email, customerName, subject, body)
}
