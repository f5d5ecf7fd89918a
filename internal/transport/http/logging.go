package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
	redacted           = "redacted"
	binaryBody         = "binary"
)

// secretKeys are body fields whose values never reach the log.
var secretKeys = []string{"password", "token", "secret", "authorization"}

type requestLog struct {
	Time      string `json:"time"`
	RequestID string `json:"request_id,omitempty"`
	IP        string `json:"ip,omitempty"`
	UserID    string `json:"user_id"`
	LatencyMS int64  `json:"latency_ms"`
	Method    string `json:"method"`
	URI       string `json:"uri"`
	Status    int    `json:"status"`
	Request   any    `json:"request_body,omitempty"`
	Response  any    `json:"response_body,omitempty"`
	Error     string `json:"error,omitempty"`
}

// registerLogging writes one JSON line per request through logger. The
// logger should carry no prefix or flags so each line stays a JSON document
// for the Logstash writer.
func registerLogging(e *echo.Echo, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := requestLog{
				Time:      v.StartTime.UTC().Format(time.RFC3339),
				RequestID: v.RequestID,
				IP:        v.RemoteIP,
				UserID:    "anonymous",
				LatencyMS: v.Latency.Milliseconds(),
				Method:    v.Method,
				URI:       v.URI,
				Status:    v.Status,
				Request:   c.Get(requestBodyLogKey),
				Response:  c.Get(responseBodyLogKey),
			}
			if user, ok := CurrentUser(c); ok {
				entry.UserID = user.ID.String()
			}
			if v.Error != nil {
				entry.Error = v.Error.Error()
			}
			buf, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			logger.Println(string(buf))
			return nil
		},
	}))

	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/swagger")
		},
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			if summary := summarizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
				c.Set(requestBodyLogKey, summary)
			}
			if summary := summarizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
				c.Set(responseBodyLogKey, summary)
			}
		},
	}))
}

// summarizeBody renders a body for the request log with secrets redacted.
// Non-text payloads such as images and XLSX exports are logged as "binary".
func summarizeBody(body []byte, contentType string) any {
	if len(body) == 0 {
		return nil
	}
	mediaType, params, _ := mime.ParseMediaType(strings.TrimSpace(contentType))

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		return summarizeMultipart(body, params["boundary"])
	case mediaType == echo.MIMEApplicationJSON || (mediaType == "" && json.Valid(body)):
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			return capJSON(redactJSON(data, ""))
		}
	}

	if isBinary(body) {
		return binaryBody
	}
	text := string(body)
	if isSecretKey(text) {
		return redacted
	}
	return clampString(text)
}

func redactJSON(value any, key string) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = redactJSON(item, strings.ToLower(k))
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = redactJSON(item, key)
		}
		return out
	case string:
		if isSecretKey(key) {
			return redacted
		}
		if isBinary([]byte(v)) {
			return binaryBody
		}
		return clampString(v)
	default:
		if isSecretKey(key) && v != nil {
			return redacted
		}
		return v
	}
}

// capJSON keeps small documents as they are. Larger ones, typically full
// admin tables, are replaced by their shape.
func capJSON(value any) any {
	buf, err := json.Marshal(value)
	if err != nil || len(buf) <= maxLoggedBody {
		return value
	}
	summary := map[string]any{"_truncated": true, "_bytes": len(buf)}
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k, item := range v {
			keys = append(keys, k)
			if rows, ok := item.([]any); ok {
				summary["_"+k+"_items"] = len(rows)
			}
		}
		sort.Strings(keys)
		summary["_keys"] = keys
	case []any:
		summary["_items"] = len(v)
	}
	return summary
}

func summarizeMultipart(body []byte, boundary string) any {
	if boundary == "" {
		return binaryBody
	}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	fields := make(map[string]any)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return binaryBody
		}
		name := part.FormName()
		switch {
		case name == "":
		case part.FileName() != "":
			fields[name] = map[string]any{"file": clampString(part.FileName()), "content_type": part.Header.Get(echo.HeaderContentType)}
		default:
			data, err := io.ReadAll(io.LimitReader(part, maxLoggedBody+1))
			if err != nil {
				fields[name] = binaryBody
			} else {
				fields[name] = redactJSON(string(data), strings.ToLower(name))
			}
		}
		_ = part.Close()
	}
	if len(fields) == 0 {
		return binaryBody
	}
	return fields
}

func isSecretKey(key string) bool {
	lowered := strings.ToLower(key)
	for _, secret := range secretKeys {
		if strings.Contains(lowered, secret) {
			return true
		}
	}
	return false
}

func isBinary(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clampString(value string) string {
	if len(value) <= maxLoggedBody {
		return value
	}
	truncated := value[:maxLoggedBody]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "...(truncated)"
}
