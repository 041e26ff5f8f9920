// Package store persists the chat conversation identifier between runs in a
// small key/value table.
package store

import (
	"context"
	"fmt"
)

// ConversationKey is the slot holding the last conversation identifier.
const ConversationKey = "portfolio_chat_id"

// KV is a string key/value store.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// StorageError wraps a failed store operation.
type StorageError struct {
	Op  string // "open", "get", "set"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
