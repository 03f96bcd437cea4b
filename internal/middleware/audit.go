package middleware

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
	"github.com/gofiber/fiber/v3"
)

const outcomeKey = "rag_outcome"

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(action, resource, details, ip, userAgent string) error
}

// SetOutcome attaches the pipeline outcome to the request so the audit record carries it.
func SetOutcome(c fiber.Ctx, outcome string) {
	c.Locals(outcomeKey, outcome)
}

// AuditMiddleware records every request. Records are written asynchronously and
// a failed write is only logged.
func AuditMiddleware(writer AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Fiber reuses contexts, so copy everything the goroutine needs.
		method := c.Method()
		path := strings.Clone(c.Path())
		ip := strings.Clone(c.IP())
		userAgent := strings.Clone(c.Get("User-Agent"))

		err := c.Next()

		details := map[string]interface{}{
			"method":      method,
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if outcome, ok := c.Locals(outcomeKey).(string); ok {
			details["outcome"] = outcome
		}
		detailsJSON, _ := json.Marshal(details)

		go func() {
			if writeErr := writer.WriteAudit(auditAction(path), path, string(detailsJSON), ip, userAgent); writeErr != nil {
				slog.Error("failed to write audit log", "error", writeErr)
			}
		}()

		return err
	}
}

func auditAction(path string) string {
	switch {
	case strings.HasSuffix(path, "/chat/completions"), path == "/api/chat":
		return domain.AuditActionChat
	case path == "/api/add-document":
		return domain.AuditActionIngest
	default:
		return domain.AuditActionHTTPRequest
	}
}
