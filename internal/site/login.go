package site

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/headsrooms/PlaywrightING/internal/logger"
	"github.com/headsrooms/PlaywrightING/internal/page"
)

// Credentials identify the customer on the login form.
type Credentials struct {
	IDNumber      string `yaml:"id_number"`
	BirthdayDay   string `yaml:"birthday_day"`
	BirthdayMonth string `yaml:"birthday_month"`
	BirthdayYear  string `yaml:"birthday_year"`
	PassCode      string `yaml:"pass_code"`
}

const (
	selectableClass        = "c-pinpad__secret-positions__position--selectable"
	selectableCurrentClass = "c-pinpad__secret-positions__position--selectable-current"
)

// Login opens the site and signs in. The pin pad only asks for some digits of
// the pass code; those positions are read from the pad and typed one by one.
func (s *Site) Login(ctx context.Context, creds Credentials) error {
	sel := s.opts.Selectors
	log := logger.FromContext(ctx)

	if s.opts.BaseURL != "" {
		if err := s.page.Navigate(ctx, s.opts.BaseURL); err != nil {
			return fmt.Errorf("opening login page: %w", err)
		}
	}

	if err := s.dismissCookies(ctx); err != nil {
		return err
	}
	if err := s.require(ctx, sel.IDNumber); err != nil {
		return err
	}

	fields := []struct{ selector, value string }{
		{sel.IDNumber, creds.IDNumber},
		{sel.BirthdayDay, creds.BirthdayDay},
		{sel.BirthdayMonth, creds.BirthdayMonth},
		{sel.BirthdayYear, creds.BirthdayYear},
	}
	for _, f := range fields {
		if err := s.page.Fill(ctx, f.selector, f.value); err != nil {
			return fmt.Errorf("filling login form: %w", err)
		}
	}
	if err := s.page.Click(ctx, sel.Next); err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}

	if err := s.require(ctx, sel.PinPad); err != nil {
		return err
	}
	markup, err := s.page.HTML(ctx, sel.PinPadPositions)
	if err != nil {
		return fmt.Errorf("reading pin pad: %w", err)
	}
	positions, err := requestedPositions(markup)
	if err != nil {
		return err
	}
	log.Debug().Ints("positions", positions).Msg("pin pad requested positions")

	for _, pos := range positions {
		if pos >= len(creds.PassCode) {
			return fmt.Errorf("pin pad asks for digit %d but the pass code has %d", pos+1, len(creds.PassCode))
		}
		if err := s.page.Click(ctx, digitSelector(creds.PassCode[pos])); err != nil {
			return fmt.Errorf("typing pass code: %w", err)
		}
	}

	if err := s.require(ctx, sel.LoggedIn); err != nil {
		return err
	}
	log.Info().Msg("logged in")
	return nil
}

// Logout closes the session.
func (s *Site) Logout(ctx context.Context) error {
	if err := s.page.Click(ctx, s.opts.Selectors.Logout); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	if err := s.page.Click(ctx, s.opts.Selectors.LogoutClose); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// Screenshot saves the current page to path.
func (s *Site) Screenshot(ctx context.Context, path string) error {
	return s.page.Screenshot(ctx, path)
}

func (s *Site) dismissCookies(ctx context.Context) error {
	ok, err := s.page.WaitFor(ctx, s.opts.Selectors.SetupCookies, s.opts.ProbeTimeout)
	if err != nil || !ok {
		return err
	}
	if err := s.page.Click(ctx, s.opts.Selectors.SetupCookies); err != nil {
		return fmt.Errorf("configuring cookies: %w", err)
	}
	if err := s.page.Click(ctx, s.opts.Selectors.CloseCookies); err != nil {
		return fmt.Errorf("closing cookie banner: %w", err)
	}
	return nil
}

// requestedPositions returns the zero-based pass code positions the pin pad
// marks as selectable, in order.
func requestedPositions(markup string) ([]int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing pin pad: %w", err)
	}
	var positions []int
	doc.Find("div").Each(func(i int, s *goquery.Selection) {
		if s.HasClass(selectableClass) || s.HasClass(selectableCurrentClass) {
			positions = append(positions, i)
		}
	})
	if len(positions) == 0 {
		return nil, fmt.Errorf("pin pad asks for no digits")
	}
	return positions, nil
}

func digitSelector(d byte) string {
	return page.XPathSelector(fmt.Sprintf(
		`//li[contains(@class,"c-pinpad__marker__slot") and normalize-space(.)="%c"]`, d))
}
