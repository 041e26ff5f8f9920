// Package chat is the portfolio's chat widget: a client for the remote
// agent API, verification token sources and the submission state machine.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultEndpoint is the hosted agent-core chat API.
const DefaultEndpoint = "https://public.stechmobile.com/agent-core/chatbot/chat"

// Request is the body posted to the chat endpoint.
type Request struct {
	Query             string `json:"query"`
	VerificationToken string `json:"verification-token"`
	ID                string `json:"id,omitempty"`
}

// Response is what the widget needs out of a reply.
type Response struct {
	Answer   string
	ThreadID string
}

// APIError is a non-2xx reply from the chat endpoint.
type APIError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *APIError) Error() string {
	detail := e.Body
	if detail == "" {
		detail = e.StatusText
	}
	return fmt.Sprintf("Chat API error %d: %s", e.Status, detail)
}

// Client posts queries to a chat endpoint.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Send posts req and parses the reply. Non-JSON bodies are accepted and
// treated as {"message": body}.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &APIError{
			Status:     res.StatusCode,
			StatusText: http.StatusText(res.StatusCode),
			Body:       string(body),
		}
	}

	data := decodeBody(body)
	return &Response{
		Answer:   ExtractAnswer(data),
		ThreadID: extractThreadID(data),
	}, nil
}

func decodeBody(body []byte) any {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return map[string]any{"message": string(body)}
	}
	// A valid value followed by anything else is not a JSON body.
	if _, err := dec.Token(); err != io.EOF {
		return map[string]any{"message": string(body)}
	}
	return data
}

// extractor pulls an answer candidate out of a decoded reply.
type extractor func(data any) (string, bool)

func field(name string) extractor {
	return func(data any) (string, bool) {
		obj, ok := data.(map[string]any)
		if !ok {
			return "", false
		}
		s, ok := obj[name].(string)
		return s, ok && s != ""
	}
}

func bareString(data any) (string, bool) {
	s, ok := data.(string)
	return s, ok
}

// answerExtractors are tried in order; the first match wins.
var answerExtractors = []extractor{
	bareString,
	field("answer"),
	field("response"),
	field("message"),
	field("output"),
}

// ExtractAnswer returns the answer text of a decoded reply, or "".
func ExtractAnswer(data any) string {
	for _, ex := range answerExtractors {
		if s, ok := ex(data); ok {
			return s
		}
	}
	return ""
}

// extractThreadID returns the conversation id, if the reply carries a
// truthy one. Numeric ids are kept in their JSON spelling; other values
// are stored in their string form.
func extractThreadID(data any) string {
	obj, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	v, ok := obj["threadId"]
	if !ok || !truthy(v) {
		return ""
	}
	return stringify(v)
}

// truthy reports whether a decoded JSON value counts as set: not null,
// false, zero or "".
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case float64:
		return v != 0
	}
	return true
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any:
		return "[object Object]"
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			if e != nil {
				parts[i] = stringify(e)
			}
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}
