// Package audit provides the fire-and-forget audit sink. Events are shipped
// to PostHog when an API key is configured; otherwise they are only logged.
package audit

import (
	"context"
	"log/slog"

	"github.com/posthog/posthog-go"

	"github.com/openbooks/ledger_core_app/internal/middleware"
)

// Recorder ships audit events. A zero-value Recorder is a safe no-op.
type Recorder struct {
	client posthog.Client
}

// NewRecorder initializes the audit recorder. An empty API key yields a
// log-only recorder.
func NewRecorder(apiKey string, logger *slog.Logger) *Recorder {
	if apiKey == "" {
		logger.Warn("Audit API key is empty, audit events will only be logged.")
		return &Recorder{}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Error("Failed to initialize audit client, audit events will only be logged.", slog.String("error", err.Error()))
		return &Recorder{}
	}
	return &Recorder{client: client}
}

// Record ships one audit event. Failures are swallowed: auditing is
// fire-and-forget and never affects the outcome of the operation it records.
func (r *Recorder) Record(ctx context.Context, eventKind string, payload map[string]any) {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Audit event", slog.String("event", eventKind), slog.Any("payload", payload))
	if r.client == nil {
		return
	}
	distinctID, _ := middleware.GetUserIDFromCtx(ctx)
	if distinctID == "" {
		distinctID = "system"
	}
	_ = r.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      eventKind,
		Properties: payload,
	})
}

// Close flushes and shuts down the underlying client.
func (r *Recorder) Close() {
	if r.client != nil {
		_ = r.client.Close()
	}
}
