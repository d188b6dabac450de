package logger

import "strings"

var levelNames = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
	"fatal":   "FATAL",
}

var statusNames = map[string]string{
	"ok":           "ok",
	"fail":         "fail",
	"skip":         "skip",
	"denied":       "denied",
	"invalid":      "invalid",
	"rate_limited": "rate_limited",
	"cancelled":    "cancelled",
}

var outcomeNames = map[string]string{
	"ok":           "ok",
	"fail":         "fail",
	"denied":       "denied",
	"blocked":      "blocked",
	"invalid":      "invalid",
	"not_found":    "not_found",
	"unsupported":  "unsupported",
	"cancelled":    "cancelled",
	"rate_limited": "rate_limited",
}

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if mapped, ok := levelNames[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return "", false
	}
	if mapped, ok := statusNames[status]; ok {
		return mapped, true
	}
	return status, false
}

func normalizeOutcome(outcome string) (string, bool) {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	val, ok := outcomeNames[outcome]
	return val, ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"handler",
	"input",
	"action",
	"prompt",
	"kind",
	"key",
	"record_id",
	"outcome",
	"duration_ms",
	"messages",
	"kb",
	"count",
	"run_id",
	"recipients",
	"succeeded",
	"failed",
	"workers",
	"enabled",
	"admins",
	"mode",
	"listen",
	"public_url",
	"http_code",
	"driver",
	"db",
	"host",
	"port",
	"version",
	"dirty",
	"err",
	"err_code",
	"cause",
	"retryable",
	"attempts",
	"backoff_ms",
}
