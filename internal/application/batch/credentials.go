package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// UserEventTopic is the per-user topic completion events land on; the
// credential issuer hands out the same pattern so a client subscribed with
// these credentials sees exactly its own events.
func UserEventTopic(userID string) string {
	return fmt.Sprintf("users/%s/batches", userID)
}

// SessionConfig fixes the delivery semantics clients must use. They are not
// negotiable: a clean session or QoS 0 would drop completion events across
// reconnects, which is the failure this component exists to prevent.
type SessionConfig struct {
	CleanSession     bool `json:"clean_session"`
	QoS              int  `json:"qos"`
	KeepAliveSeconds int  `json:"keep_alive_seconds"`
}

type IssueCredentialsInput struct {
	UserID string
}

type IssueCredentialsOutput struct {
	ClientID      string        `json:"client_id"`
	BrokerURL     string        `json:"broker_url"`
	TopicPattern  string        `json:"topic_pattern"`
	SessionConfig SessionConfig `json:"session_config"`
}

type IssueCredentials interface {
	Execute(ctx context.Context, in IssueCredentialsInput) (IssueCredentialsOutput, error)
}

type issueCredentials struct {
	brokerURL string
}

func NewIssueCredentials(brokerURL string) IssueCredentials {
	return &issueCredentials{brokerURL: brokerURL}
}

// Execute derives a stable client id from the user id. Determinism is the
// point: the broker resumes the persistent session of a returning client,
// replaying anything queued while it was offline.
func (uc *issueCredentials) Execute(ctx context.Context, in IssueCredentialsInput) (IssueCredentialsOutput, error) {
	if in.UserID == "" {
		return IssueCredentialsOutput{}, newValidationError("user id is required")
	}

	digest := sha256.Sum256([]byte(in.UserID))

	return IssueCredentialsOutput{
		ClientID:     "abs-" + hex.EncodeToString(digest[:16]),
		BrokerURL:    uc.brokerURL,
		TopicPattern: UserEventTopic(in.UserID),
		SessionConfig: SessionConfig{
			CleanSession:     false,
			QoS:              1,
			KeepAliveSeconds: 60,
		},
	}, nil
}
