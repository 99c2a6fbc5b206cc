package services

import (
	"context"
	"log"

	"firebase.google.com/go/messaging"

	"tradeBack/internal/models"
	"tradeBack/internal/repositories"
)

// NotificationService is the notification sink for the workflows: it
// persists a notification row and pushes to the user's devices on a
// best-effort basis. Delivery failures are logged and swallowed so
// they never abort the primary state transition.
type NotificationService struct {
	NotificationRepo *repositories.NotificationRepository
	FCMClient        *messaging.Client
	ErrorLog         *log.Logger
}

func (s *NotificationService) Notify(ctx context.Context, userID int, kind, message, link string) {
	n := models.Notification{UserID: userID, Kind: kind, Message: message}
	if link != "" {
		n.Link = &link
	}
	if _, err := s.NotificationRepo.Create(ctx, n); err != nil {
		s.ErrorLog.Printf("failed to store notification for user %d: %v", userID, err)
		return
	}
	s.push(ctx, userID, kind, message, link)
}

func (s *NotificationService) push(ctx context.Context, userID int, title, body, link string) {
	if s.FCMClient == nil {
		return
	}
	tokens, err := s.NotificationRepo.GetPushTokens(ctx, userID)
	if err != nil {
		s.ErrorLog.Printf("failed to fetch push tokens for user %d: %v", userID, err)
		return
	}
	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: map[string]string{
				"link": link,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
			APNS: &messaging.APNSConfig{
				Headers: map[string]string{
					"apns-priority": "10",
				},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Alert: &messaging.ApsAlert{
							Title: title,
							Body:  body,
						},
						Sound: "default",
					},
				},
			},
		}
		if _, err := s.FCMClient.Send(ctx, msg); err != nil {
			s.ErrorLog.Printf("failed to push to token %s: %v", token, err)
		}
	}
}

func (s *NotificationService) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	return s.NotificationRepo.ListForUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID int) error {
	return s.NotificationRepo.MarkRead(ctx, notificationID, userID)
}

func (s *NotificationService) SavePushToken(ctx context.Context, userID int, token string) error {
	return s.NotificationRepo.SavePushToken(ctx, userID, token)
}
