package service

import (
	"context"
	"fmt"

	"carshare-backend/internal/domain"

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

func (s *emailService) send(to, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func contractDates(c *domain.Contract) string {
	return fmt.Sprintf("%s to %s", c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"))
}

func (s *emailService) SendContractCreated(ctx context.Context, email, name string, c *domain.Contract) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental contract #%d (%s) was created and is awaiting confirmation.\nTotal cost: %.2f.\n\nBest regards,\nThe Carshare Team",
		name, c.ID, contractDates(c), float64(c.TotalCostCents)/100)
	return s.send(email, name, fmt.Sprintf("Rental Contract #%d Created", c.ID), body)
}

func (s *emailService) SendContractConfirmed(ctx context.Context, email, name string, c *domain.Contract) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental contract #%d (%s) has been confirmed.\n\nBest regards,\nThe Carshare Team",
		name, c.ID, contractDates(c))
	return s.send(email, name, fmt.Sprintf("Rental Contract #%d Confirmed", c.ID), body)
}

func (s *emailService) SendContractCancelled(ctx context.Context, email, name string, c *domain.Contract) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental contract #%d (%s) has been cancelled.\n\nBest regards,\nThe Carshare Team",
		name, c.ID, contractDates(c))
	return s.send(email, name, fmt.Sprintf("Rental Contract #%d Cancelled", c.ID), body)
}

func (s *emailService) SendCancellationRequested(ctx context.Context, email, name string, c *domain.Contract) error {
	body := fmt.Sprintf("Hello %s,\n\nYour cancellation request for rental contract #%d (%s) was received and is pending admin confirmation.\n\nBest regards,\nThe Carshare Team",
		name, c.ID, contractDates(c))
	return s.send(email, name, fmt.Sprintf("Cancellation Requested for Contract #%d", c.ID), body)
}

func (s *emailService) SendPickupReminder(ctx context.Context, email, name string, c *domain.Contract) error {
	body := fmt.Sprintf("Hello %s,\n\nA reminder that your rental contract #%d starts on %s.\n\nBest regards,\nThe Carshare Team",
		name, c.ID, c.StartDate.Format("2006-01-02"))
	return s.send(email, name, fmt.Sprintf("Your Rental Starts Soon (Contract #%d)", c.ID), body)
}
