package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"leadportal_backend/platform/config"
)

// FCMClient implements Multicaster on top of Firebase Cloud Messaging.
type FCMClient struct {
	client *messaging.Client
}

// NewFCMClient initializes the Firebase app from the configured service
// account credentials and returns a messaging client wrapper.
func NewFCMClient(ctx context.Context, cfg config.FCMConfig) (*FCMClient, error) {
	if !cfg.IsFCMEnabled() {
		return nil, fmt.Errorf("FCM is not configured")
	}

	var opts []option.ClientOption
	if json := cfg.GetFCMCredentialsJSON(); json != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(json)))
	} else {
		opts = append(opts, option.WithCredentialsFile(cfg.GetFCMCredentialsFile()))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	return &FCMClient{client: client}, nil
}

// SendMulticast delivers the message to all tokens in one multicast call.
func (c *FCMClient) SendMulticast(ctx context.Context, msg Message) (BatchResult, error) {
	if len(msg.Tokens) > MulticastLimit {
		return BatchResult{}, fmt.Errorf("multicast exceeds %d tokens", MulticastLimit)
	}

	resp, err := c.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: msg.Tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		Data: msg.Data,
	})
	if err != nil {
		return BatchResult{}, err
	}

	return BatchResult{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
	}, nil
}
