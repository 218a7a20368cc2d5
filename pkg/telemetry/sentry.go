// Package telemetry wires Sentry error reporting. With an empty DSN every
// function here is a no-op, so callers never need to check whether it is on.
package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"movie-discovery/pkg/utils"

	"github.com/getsentry/sentry-go"
)

// InitSentry initializes the SDK. Returns (false, nil) when disabled.
func InitSentry(cfg utils.SentryConfig, serviceName string) (bool, error) {
	if cfg.DSN == "" {
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		TracesSampleRate: 0.1,
		AttachStacktrace: true,
		Tags: map[string]string{
			"service": serviceName,
		},
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			return scrubPII(event)
		},
	})
	if err != nil {
		return false, fmt.Errorf("sentry.Init: %w", err)
	}

	return true, nil
}

// CaptureError reports err with the given tags. Nil errors are ignored.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// CapturePanic reports a recovered panic value together with the request.
func CapturePanic(rec any, r *http.Request) {
	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetRequest(r)
	hub.Scope().SetTag("panic", "true")

	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", rec)
	}
	hub.CaptureException(err)
}

// Flush waits for buffered events. Call with defer in main.
func Flush() {
	sentry.Flush(2 * time.Second)
}

func scrubPII(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}

	if event.User.Email != "" {
		event.User.Email = "[redacted]"
	}
	event.User.IPAddress = ""

	if event.Request != nil {
		for k := range event.Request.Headers {
			switch k {
			case "Authorization", "Cookie":
				event.Request.Headers[k] = "[redacted]"
			}
		}
	}

	return event
}
