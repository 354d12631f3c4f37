package services

import (
	"context"
	"database/sql"
	"log/slog"

	"firebase.google.com/go/messaging"
)

// NotificationService pushes FCM messages to a user's registered devices.
// Delivery is best effort: a failed push is logged and never fails the
// operation that triggered it. A nil Client disables pushes entirely.
type NotificationService struct {
	Client *messaging.Client
	DB     *sql.DB
	Logger *slog.Logger
}

func (s *NotificationService) SendToUser(ctx context.Context, userID int, title, body string, data map[string]string) {
	if s == nil || s.Client == nil {
		return
	}

	tokens, err := s.tokensForUser(ctx, userID)
	if err != nil {
		s.logger().Error("fetch device tokens", "user_id", userID, "error", err)
		return
	}

	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
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
		if _, err := s.Client.Send(ctx, message); err != nil {
			s.logger().Error("send push", "user_id", userID, "error", err)
		}
	}
}

func (s *NotificationService) RegisterToken(ctx context.Context, userID int, token string) error {
	_, err := s.DB.ExecContext(ctx, `
        INSERT INTO notify_tokens (user_id, token)
        VALUES ($1, $2)
        ON CONFLICT (token) DO UPDATE SET user_id = $1
    `, userID, token)
	return err
}

func (s *NotificationService) RemoveToken(ctx context.Context, token string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM notify_tokens WHERE token = $1`, token)
	return err
}

func (s *NotificationService) tokensForUser(ctx context.Context, userID int) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT token FROM notify_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (s *NotificationService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
