package echo_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGetCredentialsReturnsSessionConfig(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/pubsub/credentials", nil)
	authorize(t, req, "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got struct {
		ClientID      string `json:"client_id"`
		BrokerURL     string `json:"broker_url"`
		TopicPattern  string `json:"topic_pattern"`
		SessionConfig struct {
			CleanSession bool `json:"clean_session"`
			QoS          int  `json:"qos"`
		} `json:"session_config"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	if got.TopicPattern != "users/user-1/batches" {
		t.Errorf("topic pattern = %q", got.TopicPattern)
	}
	if got.SessionConfig.CleanSession || got.SessionConfig.QoS != 1 {
		t.Errorf("unexpected session config: %+v", got.SessionConfig)
	}
	if got.ClientID == "" {
		t.Error("client id is empty")
	}
}

func TestGetCredentialsIsDeterministic(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	clientID := func() string {
		req := httptest.NewRequest(http.MethodGet, "/pubsub/credentials", nil)
		authorize(t, req, "user-1")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var got map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unexpected json: %v", err)
		}
		id, _ := got["client_id"].(string)
		return id
	}

	first := clientID()
	if second := clientID(); second != first {
		t.Fatalf("client id changed across calls: %q vs %q", first, second)
	}
}

func TestGetCredentialsRejectsBadToken(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/pubsub/credentials", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
