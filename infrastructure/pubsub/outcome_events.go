package pubsub

import (
	"context"
	"errors"

	"social-flood/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// IOutcomeEvents publishes terminal publish-package outcomes for downstream
// consumers (analytics, notifications).
type IOutcomeEvents interface {
	Publish(ctx context.Context, topicName string, payload []byte) (string, error)
}

// NewPubSub creates the underlying Pub/Sub client. Callers may pass the
// resulting nil client on failure; OutcomeEvents degrades gracefully.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id not configured")
	}
	return pubsub.NewClient(ctx, projectID)
}

type OutcomeEvents struct {
	client *pubsub.Client
}

func NewOutcomeEvents(client *pubsub.Client) IOutcomeEvents {
	return &OutcomeEvents{client: client}
}

// Publish sends one event, creating the topic on first use. A nil client is
// a no-op so the feature can be switched off by configuration.
func (e *OutcomeEvents) Publish(ctx context.Context, topicName string, payload []byte) (string, error) {
	if e.client == nil {
		return "", nil
	}
	topic := e.client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		logger.GetLogger().WithField("topic", topicName).Info("Topic doesn't exist - creating it")
		if _, err = e.client.CreateTopic(ctx, topicName); err != nil {
			return "", err
		}
	}
	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return "", err
	}
	logger.GetLogger().WithField("server ID", serverID).Info("Outcome event published")
	return serverID, nil
}
