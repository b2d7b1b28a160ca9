package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/anuragkelkar1/onesignal-app/internal/config"
	"github.com/anuragkelkar1/onesignal-app/internal/entities"
)

// Dispatcher delivers a notification payload. Transport details (SMS, email,
// push) are its own business; callers only see success or failure.
type Dispatcher interface {
	Dispatch(ctx context.Context, req entities.DispatchRequest) error
}

// NotifyService routes dispatch requests: staff notifications go out as
// email, SMS and push; requester notifications go out as SMS to the phone on
// the reservation.
type NotifyService struct {
	staffPhone string
	staffEmail string
	push       PushProvider
}

func NewNotifyService(cfg *config.Config, push PushProvider) *NotifyService {
	return &NotifyService{
		staffPhone: cfg.StaffPhone,
		staffEmail: cfg.StaffEmail,
		push:       push,
	}
}

func (s *NotifyService) Dispatch(ctx context.Context, req entities.DispatchRequest) error {
	if req.NotifyStaff {
		return s.notifyStaff(ctx, req)
	}
	return SendSMS(req.Phone, req.Message)
}

func (s *NotifyService) notifyStaff(ctx context.Context, req entities.DispatchRequest) error {
	subject := "New reservation request"
	body := fmt.Sprintf(
		"New reservation request.\n\n"+
			"Phone: %s\n"+
			"Time: %s\n"+
			"Party of %d\n\n"+
			"%s",
		req.Phone, req.ReservationTime, req.PartySize, req.Message,
	)

	var firstErr error
	if s.staffEmail != "" {
		if err := SendEmailWithSendGrid(s.staffEmail, "Staff", subject, body, ""); err != nil {
			log.Printf("Failed to email staff about reservation from %s: %v", req.Phone, err)
			firstErr = err
		}
	}
	if s.staffPhone != "" {
		smsBody := fmt.Sprintf("New reservation: %s, party of %d at %s", req.Phone, req.PartySize, req.ReservationTime)
		if err := SendSMS(s.staffPhone, smsBody); err != nil {
			log.Printf("Failed to SMS staff about reservation from %s: %v", req.Phone, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if s.push != nil && s.push.Enabled() {
		if err := s.push.Show(ctx, "New Reservation", req.Phone+": "+req.Message); err != nil {
			log.Printf("Failed to push staff notification for %s: %v", req.Phone, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func SendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not configured, email not sent")
	}

	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL is not configured, email not sent")
	}

	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "Reservations"
	}

	if htmlContent == "" {
		htmlContent = plainTextContent
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email through SendGrid: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Printf("Email sent to %s (subject: %s), status %d", toEmailAddress, subject, response.StatusCode)
		return nil
	}
	return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
}

func SendSMS(toNumber string, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("twilio credentials are not fully configured, SMS not sent")
	}

	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("Destination number '%s' is not in E.164 format, SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s, message SID %s", toNumber, *resp.Sid)
	}
	return nil
}
