package notify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
)

func TestTopicOutcome(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		created, err := topicOutcome("visadesk.notifications", kadm.CreateTopicResponse{Topic: "visadesk.notifications"}, nil)
		assert.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("already exists in response", func(t *testing.T) {
		created, err := topicOutcome("visadesk.notifications", kadm.CreateTopicResponse{Err: kerr.TopicAlreadyExists}, nil)
		assert.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("already exists as wrapped error", func(t *testing.T) {
		created, err := topicOutcome("visadesk.notifications", kadm.CreateTopicResponse{}, fmt.Errorf("request: %w", kerr.TopicAlreadyExists))
		assert.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("broker refusal", func(t *testing.T) {
		_, err := topicOutcome("visadesk.notifications", kadm.CreateTopicResponse{Err: kerr.TopicAuthorizationFailed}, nil)
		assert.ErrorIs(t, err, kerr.TopicAuthorizationFailed)
		assert.ErrorContains(t, err, "create topic visadesk.notifications")
	})

	t.Run("transport failure", func(t *testing.T) {
		_, err := topicOutcome("visadesk.notifications", kadm.CreateTopicResponse{}, errors.New("dial tcp: connection refused"))
		assert.ErrorContains(t, err, "connection refused")
	})
}
