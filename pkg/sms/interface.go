package sms

import "context"

// SMSProvider sends text messages and places voice calls. Authority
// dispatch uses the voice path; contact notification uses SMS.
type SMSProvider interface {
	SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error)
	SendBulkSMS(ctx context.Context, requests []*SMSRequest) ([]*SMSResponse, error)
	PlaceCall(ctx context.Context, request *CallRequest) (*CallResponse, error)
	GetDeliveryStatus(ctx context.Context, messageID string) (*DeliveryStatus, error)
}

type SMSRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
	Type    string `json:"type"` // transactional, emergency
}

type SMSResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type CallRequest struct {
	To       string `json:"to"`
	From     string `json:"from"`
	Message  string `json:"message"`
	Language string `json:"language"` // tr-TR, en-US
}

type CallResponse struct {
	CallID string `json:"call_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type DeliveryStatus struct {
	MessageID    string `json:"message_id"`
	Status       string `json:"status"`
	DeliveredAt  int64  `json:"delivered_at,omitempty"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
