// Package ai defines the completion contract shared by every model provider:
// one prompt in, one classified Result out.
package ai

import "context"

// Kind classifies the outcome of a completion request.
type Kind int

const (
	// KindText means the model produced non-empty text.
	KindText Kind = iota
	// KindEmpty means the model declined or returned nothing usable.
	KindEmpty
	// KindFailed means the request itself failed (network, quota, malformed response).
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmpty:
		return "empty"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single completion. Text is set only for KindText,
// Err only for KindFailed. Reason optionally explains a KindEmpty result.
type Result struct {
	Kind   Kind
	Text   string
	Reason string
	Err    error
}

// Text returns a successful result.
func Text(text string) Result {
	return Result{Kind: KindText, Text: text}
}

// Empty returns a result for a completion that produced nothing usable.
func Empty(reason string) Result {
	return Result{Kind: KindEmpty, Reason: reason}
}

// Failed returns a result carrying the cause of a failed request.
func Failed(err error) Result {
	return Result{Kind: KindFailed, Err: err}
}

// Completer sends a single stateless prompt to a model configured with a fixed
// system instruction. Implementations must be safe for concurrent use.
type Completer interface {
	Complete(ctx context.Context, prompt string) Result
}
