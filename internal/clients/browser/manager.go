package browser

import (
	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Manager owns one headless browser with a single page. The scraper is
// deliberately sequential, so one page per manager is all it ever needs.
// Close must be called on every exit path.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

// Launch starts playwright and opens a Chromium page.
func Launch(headless bool) (*Manager, error) {

	pw, err := playwright.Run()
	if err != nil {
		return nil, errors.Wrap(err, "start playwright")
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args:     []string{"--no-sandbox", "--disable-dev-shm-usage", "--disable-gpu"},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, errors.Wrap(err, "launch browser")
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Viewport:  &playwright.Size{Width: 1400, Height: 2000},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, errors.Wrap(err, "create browser context")
	}

	page, err := context.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, errors.Wrap(err, "open page")
	}

	return &Manager{pw: pw, browser: browser, page: page}, nil
}

// Page returns the manager's single page.
func (m *Manager) Page() playwright.Page {
	return m.page
}

// Close shuts the browser down and stops the playwright driver.
func (m *Manager) Close() error {
	var firstErr error
	if err := m.browser.Close(); err != nil {
		firstErr = err
	}
	if err := m.pw.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
