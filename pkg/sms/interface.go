package sms

import (
	"context"
	"fmt"
)

type SMSProvider interface {
	SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error)
}

type SMSRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
	Type    string `json:"type"` // transactional, promotional
}

type SMSResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type Options struct {
	Provider string // none, twilio, aws

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	AWSRegion   string
	AWSSenderID string
}

// NewProvider returns nil, nil when SMS is switched off.
func NewProvider(opts Options) (SMSProvider, error) {
	switch opts.Provider {
	case "", "none":
		return nil, nil
	case "twilio":
		if opts.TwilioAccountSID == "" || opts.TwilioAuthToken == "" {
			return nil, fmt.Errorf("twilio credentials are required")
		}
		return NewTwilioProvider(opts.TwilioAccountSID, opts.TwilioAuthToken, opts.TwilioFrom), nil
	case "aws", "sns":
		return NewAWSSNSProvider(opts.AWSRegion, opts.AWSSenderID)
	default:
		return nil, fmt.Errorf("unsupported sms provider %q", opts.Provider)
	}
}
