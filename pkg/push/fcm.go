package push

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type FCMProvider struct {
	client *messaging.Client
}

func NewFCMProvider(credentialsFile string) (*FCMProvider, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &FCMProvider{
		client: client,
	}, nil
}

func (f *FCMProvider) SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error) {
	message := f.buildMessage(request)

	response, err := f.client.Send(ctx, message)
	if err != nil {
		return &NotificationResponse{
			Success: false,
			Error:   err.Error(),
			Token:   request.Token,
		}, err
	}

	return &NotificationResponse{
		MessageID: response,
		Success:   true,
		Token:     request.Token,
	}, nil
}

func (f *FCMProvider) SendBulkNotifications(ctx context.Context, requests []*NotificationRequest) ([]*NotificationResponse, error) {
	messages := make([]*messaging.Message, len(requests))
	for i, req := range requests {
		messages[i] = f.buildMessage(req)
	}

	batchResponse, err := f.client.SendAll(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to send bulk notifications: %w", err)
	}

	responses := make([]*NotificationResponse, len(requests))
	for i, response := range batchResponse.Responses {
		if response.Success {
			responses[i] = &NotificationResponse{
				MessageID: response.MessageID,
				Success:   true,
				Token:     requests[i].Token,
			}
		} else {
			responses[i] = &NotificationResponse{
				Success: false,
				Error:   response.Error.Error(),
				Token:   requests[i].Token,
			}
		}
	}

	return responses, nil
}

func (f *FCMProvider) ValidateToken(ctx context.Context, token string) (bool, error) {
	// No direct validation API; a dry run send surfaces invalid tokens
	message := &messaging.Message{
		Token: token,
		Data: map[string]string{
			"test": "validation",
		},
	}

	_, err := f.client.SendDryRun(ctx, message)
	return err == nil, err
}

func (f *FCMProvider) buildMessage(request *NotificationRequest) *messaging.Message {
	message := &messaging.Message{
		Token: request.Token,
		Data:  request.Data,
	}

	if request.Title != "" || request.Body != "" {
		message.Notification = &messaging.Notification{
			Title: request.Title,
			Body:  request.Body,
		}
	}

	androidPriority := "normal"
	if request.Priority == "high" || request.Critical {
		androidPriority = "high"
	}

	message.Android = &messaging.AndroidConfig{
		Priority: androidPriority,
		Notification: &messaging.AndroidNotification{
			Title:     request.Title,
			Body:      request.Body,
			Sound:     request.Sound,
			ChannelID: f.channelFor(request),
		},
	}

	aps := &messaging.Aps{
		Sound: request.Sound,
	}
	if request.Badge > 0 {
		aps.Badge = &request.Badge
	}
	if request.Critical {
		aps.Sound = ""
		aps.CriticalSound = &messaging.CriticalSound{
			Critical: true,
			Name:     firstNonEmpty(request.Sound, "default"),
			Volume:   1.0,
		}
	}

	message.APNS = &messaging.APNSConfig{
		Payload: &messaging.APNSPayload{
			Aps: aps,
		},
	}

	return message
}

func (f *FCMProvider) channelFor(request *NotificationRequest) string {
	if request.Critical {
		return "emergency_alerts"
	}
	return "default"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
