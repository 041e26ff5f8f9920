package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sebas2906/portfolio/internal/logger"
	"github.com/sebas2906/portfolio/pkg/store"
)

// Status lines shown under the transcript.
const (
	StatusThinking = "Thinking..."
	StatusGuidance = "Make sure the API is running on http://localhost:3001 and CORS is enabled."

	// NoResponse stands in for an empty answer.
	NoResponse = "No response received."
)

// Role tells who wrote a transcript entry.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

func (r Role) String() string {
	if r == RoleUser {
		return "user"
	}
	return "assistant"
}

// Entry is one transcript line.
type Entry struct {
	Role Role
	Text string
	At   time.Time
}

// View is a snapshot of the widget for drawing.
type View struct {
	Transcript []Entry
	Status     string
	Disabled   bool
}

// Widget runs chat submissions: Idle, then Sending, then back to Idle with
// either an answer or an error in the transcript. Input is disabled while a
// submission is in flight.
type Widget struct {
	client *Client
	tokens TokenSource
	kv     store.KV
	log    logger.Logger

	mu         sync.Mutex
	transcript []Entry
	status     string
	disabled   bool

	// OnChange, if set, is called after every state change. It may be
	// called from the request goroutine.
	OnChange func()

	now func() time.Time
}

// NewWidget creates an idle widget.
func NewWidget(client *Client, tokens TokenSource, kv store.KV, log logger.Logger) *Widget {
	return &Widget{
		client: client,
		tokens: tokens,
		kv:     kv,
		log:    log,
		now:    time.Now,
	}
}

// View returns a copy of the current state.
func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		Transcript: append([]Entry(nil), w.transcript...),
		Status:     w.status,
		Disabled:   w.disabled,
	}
}

// Submit starts a submission of text. Blank text, or a submission while
// input is disabled, is rejected with ok false and nothing happens.
// Otherwise the user entry is appended right away and done is closed once
// the exchange has finished and input is enabled again.
func (w *Widget) Submit(ctx context.Context, text string) (done <-chan struct{}, ok bool) {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil, false
	}

	w.mu.Lock()
	if w.disabled {
		w.mu.Unlock()
		return nil, false
	}
	w.transcript = append(w.transcript, Entry{Role: RoleUser, Text: query, At: w.now()})
	w.disabled = true
	w.status = StatusThinking
	w.mu.Unlock()
	w.changed()

	ch := make(chan struct{})
	go func() {
		defer close(ch)
		w.send(ctx, query)
	}()
	return ch, true
}

func (w *Widget) send(ctx context.Context, query string) {
	requestID := uuid.NewString()
	defer func() {
		w.mu.Lock()
		w.disabled = false
		w.mu.Unlock()
		w.changed()
	}()

	answer, err := w.exchange(ctx, query, requestID)

	w.mu.Lock()
	if err != nil {
		w.transcript = append(w.transcript, Entry{Role: RoleAssistant, Text: "Error: " + err.Error(), At: w.now()})
		w.status = StatusGuidance
	} else {
		if answer == "" {
			answer = NoResponse
		}
		w.transcript = append(w.transcript, Entry{Role: RoleAssistant, Text: answer, At: w.now()})
		w.status = ""
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Error("chat", "chat request failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err,
		})
	}
}

func (w *Widget) exchange(ctx context.Context, query, requestID string) (string, error) {
	token, err := w.tokens.Token(ctx)
	if err != nil {
		return "", err
	}

	// A broken store only costs conversation continuity.
	id, _, err := w.kv.Get(ctx, store.ConversationKey)
	if err != nil {
		w.log.Warn("chat", "could not read conversation id", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}

	w.log.Info("chat", "sending chat request", map[string]interface{}{
		"request_id":   requestID,
		"endpoint":     w.client.Endpoint,
		"conversation": id,
		"query_length": len(query),
	})

	resp, err := w.client.Send(ctx, Request{Query: query, VerificationToken: token, ID: id})
	if err != nil {
		return "", err
	}

	if resp.ThreadID != "" {
		if err := w.kv.Set(ctx, store.ConversationKey, resp.ThreadID); err != nil {
			w.log.Warn("chat", "could not store conversation id", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
		}
	}

	w.log.Debug("chat", "chat response received", map[string]interface{}{
		"request_id":    requestID,
		"thread_id":     resp.ThreadID,
		"answer_length": len(resp.Answer),
	})
	return resp.Answer, nil
}

func (w *Widget) changed() {
	if w.OnChange != nil {
		w.OnChange()
	}
}
