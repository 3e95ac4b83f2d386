package notification

import (
	"context"
	"fmt"

	"travelagency/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// AdminTopic is the FCM topic the back-office app subscribes to.
const AdminTopic = "agency-admins"

// NotificationService sends back-office push notifications.
type NotificationService interface {
	NotifyAdmins(ctx context.Context, title, body string, data map[string]string) error
}

// PushNotificationService publishes to an FCM topic.
type PushNotificationService struct {
	client *messaging.Client
	topic  string
}

func NewPushNotificationService(client *messaging.Client, topic string) (*PushNotificationService, error) {
	if client == nil {
		return nil, fmt.Errorf("notification service initialization error: messaging client is nil")
	}
	if topic == "" {
		topic = AdminTopic
	}
	return &PushNotificationService{client: client, topic: topic}, nil
}

func (s *PushNotificationService) NotifyAdmins(ctx context.Context, title, body string, data map[string]string) error {
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = utils.RoleAdmin
	}

	msg := &messaging.Message{
		Topic: s.topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("NotifyAdmins: failed to send FCM message: %w", err)
	}
	return nil
}

// LogNotificationService logs instead of pushing. Used when Firebase is not configured.
type LogNotificationService struct{}

func (LogNotificationService) NotifyAdmins(_ context.Context, title, body string, data map[string]string) error {
	utils.GetLogger().Info("Admin notification",
		zap.String("title", title), zap.String("body", body), zap.Any("data", data))
	return nil
}

// New picks the FCM implementation when a client is available.
func New(client *messaging.Client) NotificationService {
	if client == nil {
		return LogNotificationService{}
	}
	svc, err := NewPushNotificationService(client, AdminTopic)
	if err != nil {
		return LogNotificationService{}
	}
	return svc
}
