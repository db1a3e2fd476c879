package storage

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// deadlineProbe fails every request after recording whether the SDK passed
// it a context with a deadline.
type deadlineProbe struct {
	sawDeadline bool
}

func (p *deadlineProbe) Do(req *http.Request) (*http.Response, error) {
	_, p.sawDeadline = req.Context().Deadline()
	return nil, errors.New("transport closed for test")
}

func probeConfig(probe *deadlineProbe) aws.Config {
	return aws.Config{
		Region:           "auto",
		Credentials:      aws.AnonymousCredentials{},
		HTTPClient:       probe,
		RetryMaxAttempts: 1,
	}
}

func TestPutBoundsCallDeadline(t *testing.T) {
	t.Parallel()

	probe := &deadlineProbe{}
	store := NewObjectStore(probeConfig(probe), "artifacts")

	err := store.Put(context.Background(), "user-1/b-1/raw-audio/a.m4a", []byte("audio"), "audio/mp4")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !probe.sawDeadline {
		t.Fatal("put ran without a deadline")
	}
}

func TestHeadBoundsCallDeadline(t *testing.T) {
	t.Parallel()

	probe := &deadlineProbe{}
	store := NewObjectStore(probeConfig(probe), "artifacts")

	if _, err := store.Head(context.Background(), "user-1/b-1/raw-audio/a.m4a"); err == nil {
		t.Fatal("expected transport error")
	}
	if !probe.sawDeadline {
		t.Fatal("head ran without a deadline")
	}
}
