package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// EnsureTopic creates topic with the broker's default partition count and
// replication factor. created is false when the topic already existed.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string) (created bool, err error) {
	// Not closed: closing the admin client closes the producer too.
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, -1, -1, nil, topic)
	return topicOutcome(topic, resp, err)
}

func topicOutcome(topic string, resp kadm.CreateTopicResponse, err error) (bool, error) {
	if err == nil {
		err = resp.Err
	}
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, kerr.TopicAlreadyExists):
		return false, nil
	default:
		return false, fmt.Errorf("create topic %s: %w", topic, err)
	}
}
