package notify

import (
	"context"
	"fmt"

	"cmms-service/internal/model"
	"cmms-service/pkg/config"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// EmailTransport delivers through an HTTP email gateway
type EmailTransport struct {
	client *resty.Client
	from   string
}

// NewEmailTransport creates the email gateway client
func NewEmailTransport(cfg *config.NotifyConfig) *EmailTransport {
	client := resty.New().
		SetBaseURL(cfg.EmailGatewayURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.EmailAPIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.EmailAPIKey)
	}
	return &EmailTransport{client: client, from: cfg.EmailFrom}
}

func (t *EmailTransport) Send(ctx context.Context, address, subject, body string) error {
	payload := map[string]string{
		"from":    t.from,
		"to":      address,
		"subject": subject,
		"body":    body,
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/v1/messages")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("email gateway returned %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// SMSTransport delivers through an HTTP SMS gateway
type SMSTransport struct {
	client *resty.Client
	sender string
}

// NewSMSTransport creates the SMS gateway client
func NewSMSTransport(cfg *config.NotifyConfig) *SMSTransport {
	client := resty.New().
		SetBaseURL(cfg.SMSGatewayURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.SMSAPIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.SMSAPIKey)
	}
	return &SMSTransport{client: client, sender: cfg.SMSSender}
}

func (t *SMSTransport) Send(ctx context.Context, address, subject, body string) error {
	text := body
	if subject != "" {
		text = subject + ": " + body
	}
	payload := map[string]string{
		"sender": t.sender,
		"to":     address,
		"text":   text,
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/v1/sms")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway returned %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// InAppTransport stores the message in the user's in-app inbox
type InAppTransport struct {
	db *gorm.DB
}

// NewInAppTransport creates the in-app transport
func NewInAppTransport(db *gorm.DB) *InAppTransport {
	return &InAppTransport{db: db}
}

func (t *InAppTransport) Send(ctx context.Context, address, subject, body string) error {
	message := &model.InAppMessage{
		Recipient: address,
		Subject:   subject,
		Body:      body,
	}
	return t.db.WithContext(ctx).Create(message).Error
}
