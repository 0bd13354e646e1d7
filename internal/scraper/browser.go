package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/jgoulah/timelinescraper/internal/config"
)

// TimelinePageURL is the page the user signs in on
const TimelinePageURL = "https://www.google.com/maps/timeline"

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// NewBrowser starts a Chrome allocator and tab. The returned cancel tears both down.
func NewBrowser(ctx context.Context, visible bool, timeout time.Duration) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !visible),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(browserUserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)

	return browserCtx, func() {
		cancelTimeout()
		cancelBrowser()
		cancelAlloc()
	}
}

// ExtractCookies extracts all cookies from the current browser context
func ExtractCookies(ctx context.Context) ([]config.Cookie, error) {
	var cookies []*network.Cookie

	if err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = network.GetCookies().Do(ctx)
			return err
		}),
	); err != nil {
		return nil, fmt.Errorf("getting cookies: %w", err)
	}

	return FromNetworkCookies(cookies), nil
}

// FromNetworkCookies converts DevTools cookies to config cookies
func FromNetworkCookies(cookies []*network.Cookie) []config.Cookie {
	result := make([]config.Cookie, 0, len(cookies))
	for _, c := range cookies {
		result = append(result, config.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: c.SameSite.String(),
		})
	}
	return result
}

// GoogleCookies keeps only cookies the timeline endpoint accepts
func GoogleCookies(cookies []config.Cookie) []config.Cookie {
	var result []config.Cookie
	for _, c := range cookies {
		if c.Domain == "google.com" || c.Domain == ".google.com" || c.Domain == "www.google.com" {
			result = append(result, c)
		}
	}
	return result
}

// SetCookies sets cookies in the browser context
func SetCookies(ctx context.Context, cookies []config.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}

	for _, c := range cookies {
		expr := network.SetCookie(c.Name, c.Value).
			WithDomain(c.Domain).
			WithPath(c.Path).
			WithHTTPOnly(c.HTTPOnly).
			WithSecure(c.Secure)

		if err := chromedp.Run(ctx,
			chromedp.ActionFunc(func(ctx context.Context) error {
				return expr.Do(ctx)
			}),
		); err != nil {
			return fmt.Errorf("setting cookie %s: %w", c.Name, err)
		}
	}

	return nil
}

// Login opens the timeline page in a visible browser, waits for wait to
// return (the user signing in), and returns the session cookies.
func Login(ctx context.Context, wait func() error) ([]config.Cookie, error) {
	browserCtx, cancel := NewBrowser(ctx, true, 10*time.Minute)
	defer cancel()

	if err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(TimelinePageURL),
	); err != nil {
		return nil, fmt.Errorf("navigating to timeline page: %w", err)
	}

	if err := wait(); err != nil {
		return nil, err
	}

	cookies, err := ExtractCookies(browserCtx)
	if err != nil {
		return nil, fmt.Errorf("extracting cookies: %w", err)
	}

	cookies = GoogleCookies(cookies)
	if len(cookies) == 0 {
		return nil, fmt.Errorf("no google.com cookies found - make sure you're logged in")
	}
	return cookies, nil
}

// PageHTML loads url with cookies applied and returns the rendered document
func PageHTML(ctx context.Context, url string, cookies []config.Cookie, visible bool) (string, error) {
	browserCtx, cancel := NewBrowser(ctx, visible, 2*time.Minute)
	defer cancel()

	if err := SetCookies(browserCtx, cookies); err != nil {
		return "", fmt.Errorf("setting cookies: %w", err)
	}

	var html string
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("loading page: %w", err)
	}
	return html, nil
}
