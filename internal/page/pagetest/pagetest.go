// Package pagetest provides a scriptable page.Page for tests.
package pagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/headsrooms/PlaywrightING/internal/page"
)

// Fake is an in-memory page. Visible controls which selectors WaitFor finds;
// HTMLs and Texts back HTML and Text. OnClick lets a test move the page to
// its next state when something is clicked.
type Fake struct {
	mu sync.Mutex

	Visible map[string]bool
	HTMLs   map[string]string
	Texts   map[string][]string

	OnClick func(f *Fake, selector string) error

	// Ops records every call as "click <sel>", "fill <sel>=<value>", ...
	Ops         []string
	Screenshots []string
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		Visible: make(map[string]bool),
		HTMLs:   make(map[string]string),
		Texts:   make(map[string][]string),
	}
}

func (f *Fake) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = append(f.Ops, op)
}

// Clicks returns how many times selector was clicked.
func (f *Fake) Clicks(selector string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, op := range f.Ops {
		if op == "click "+selector {
			n++
		}
	}
	return n
}

// Navigate implements page.Page.
func (f *Fake) Navigate(_ context.Context, url string) error {
	f.record("navigate " + url)
	return nil
}

// Text implements page.Page.
func (f *Fake) Text(_ context.Context, selector string) ([]string, error) {
	f.record("text " + selector)
	tokens, ok := f.Texts[selector]
	if !ok {
		return nil, fmt.Errorf("text %q: %w", selector, page.ErrNavigationTimeout)
	}
	return tokens, nil
}

// HTML implements page.Page.
func (f *Fake) HTML(_ context.Context, selector string) (string, error) {
	f.record("html " + selector)
	html, ok := f.HTMLs[selector]
	if !ok {
		return "", fmt.Errorf("html %q: %w", selector, page.ErrNavigationTimeout)
	}
	return html, nil
}

// Click implements page.Page.
func (f *Fake) Click(_ context.Context, selector string) error {
	f.record("click " + selector)
	if f.OnClick != nil {
		return f.OnClick(f, selector)
	}
	return nil
}

// Fill implements page.Page.
func (f *Fake) Fill(_ context.Context, selector, value string) error {
	f.record("fill " + selector + "=" + value)
	return nil
}

// WaitFor implements page.Page.
func (f *Fake) WaitFor(ctx context.Context, selector string, _ time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f.record("wait " + selector)
	return f.Visible[selector], nil
}

// Screenshot implements page.Page.
func (f *Fake) Screenshot(_ context.Context, path string) error {
	f.record("screenshot " + path)
	f.Screenshots = append(f.Screenshots, path)
	return nil
}

var _ page.Page = (*Fake)(nil)
