// Package page declares the interactive session the sync core drives and the
// errors a session reports.
package page

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Page is one navigable browser page. Selectors are CSS unless they carry the
// "text=" prefix (element containing the text) or the "xpath=" prefix.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// Text returns the whitespace-split text tokens under selector.
	Text(ctx context.Context, selector string) ([]string, error)
	// HTML returns the inner markup of selector.
	HTML(ctx context.Context, selector string) (string, error)
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	// WaitFor reports whether selector became visible within timeout. Running
	// out of time is an answer, not an error.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (bool, error)
	Screenshot(ctx context.Context, path string) error
}

// ErrNavigationTimeout is returned when an element that had to appear never did.
var ErrNavigationTimeout = errors.New("navigation timeout")

// SessionError is a protocol-level failure reported by the session.
type SessionError struct {
	Op       string
	Selector string
	Err      error
}

func (e *SessionError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("session %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("session %s %q: %v", e.Op, e.Selector, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

const (
	textPrefix  = "text="
	xpathPrefix = "xpath="
)

// TextSelector selects the element whose text contains s.
func TextSelector(s string) string { return textPrefix + s }

// XPathSelector selects with a raw XPath expression.
func XPathSelector(expr string) string { return xpathPrefix + expr }

// SplitSelector returns the selector kind ("css", "text" or "xpath") and its body.
func SplitSelector(selector string) (kind, body string) {
	switch {
	case strings.HasPrefix(selector, textPrefix):
		return "text", strings.TrimPrefix(selector, textPrefix)
	case strings.HasPrefix(selector, xpathPrefix):
		return "xpath", strings.TrimPrefix(selector, xpathPrefix)
	default:
		return "css", selector
	}
}
