package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	_ "github.com/postify/postify/internal/testing/guard"
)

func TestSendEmailTaskRoundTrip(t *testing.T) {
	task, err := NewSendEmailTask(SendEmailPayload{
		To:      "owner@postify.local",
		Subject: "Daily sales summary",
		Body:    "3 transactions",
	})
	require.NoError(t, err)
	require.Equal(t, TaskTypeSendEmail, task.Type())

	var payload SendEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "owner@postify.local", payload.To)
}

func TestHandleSendEmailTaskSkipsRetryOnBadPayload(t *testing.T) {
	task := asynq.NewTask(TaskTypeSendEmail, []byte("{not json"))
	err := HandleSendEmailTask(context.Background(), task)
	require.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHealthWithoutInspector(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(nil, logger)

	res := httptest.NewRecorder()
	handler.health(res, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Queues []struct {
			Queue   string `json:"queue"`
			Pending int    `json:"pending"`
		} `json:"queues"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Len(t, body.Queues, 2)
	require.Equal(t, QueueDefault, body.Queues[0].Queue)
	require.Equal(t, QueueMail, body.Queues[1].Queue)
	require.Zero(t, body.Queues[0].Pending)
}
