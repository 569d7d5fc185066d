package browser

import (
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ConsoleLog collects console errors and uncaught exceptions from a page.
type ConsoleLog struct {
	mu     sync.Mutex
	errors []string
}

// WatchConsole subscribes to page console output. Errors are logged as they
// arrive and kept for the run summary.
func WatchConsole(page playwright.Page, logger *zap.Logger) *ConsoleLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := &ConsoleLog{}
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		if msg.Type() != "error" {
			return
		}
		logger.Warn("🖥️ Browser console error", zap.String("text", msg.Text()))
		cl.add(msg.Text())
	})
	page.OnPageError(func(err error) {
		logger.Warn("🖥️ Uncaught page error", zap.Error(err))
		cl.add(err.Error())
	})
	return cl
}

func (c *ConsoleLog) add(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, text)
}

// Errors returns the collected messages in arrival order.
func (c *ConsoleLog) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors...)
}
