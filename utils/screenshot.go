package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ScreenShotDebugger saves step and error screenshots under one directory.
type ScreenShotDebugger struct {
	outputDir string
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	taken map[string]int
}

func NewScreenShotDebugger(dir string, logger *zap.Logger) (*ScreenShotDebugger, error) {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create screenshot dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreenShotDebugger{outputDir: dir, logger: logger, now: time.Now, taken: make(map[string]int)}, nil
}

// Dir is where screenshots are written.
func (s *ScreenShotDebugger) Dir() string {
	return s.outputDir
}

// Path reserves a file for a capture named name. Names are stamped to the
// millisecond; a repeat within the same millisecond gets a numeric suffix.
func (s *ScreenShotDebugger) Path(name string) string {
	base := fmt.Sprintf("%s_%s", slug(name), s.now().Format("2006-01-02_15-04-05.000"))

	s.mu.Lock()
	n := s.taken[base]
	s.taken[base] = n + 1
	s.mu.Unlock()

	if n > 0 {
		base = fmt.Sprintf("%s_%d", base, n+1)
	}
	return filepath.Join(s.outputDir, base+".png")
}

// CaptureAndLog takes a full-page screenshot and returns its path.
func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) (string, error) {
	path := s.Path(name)
	s.logger.Info("📸 "+message, zap.String("name", name))

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.logger.Warn("⚠️ Failed to capture screenshot", zap.String("name", name), zap.Error(err))
		return "", err
	}

	s.logger.Debug("Screenshot saved", zap.String("path", path))
	return path, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func slug(name string) string {
	s := strings.Trim(unsafeChars.ReplaceAllString(name, "-"), "-")
	if s == "" {
		return "screenshot"
	}
	return strings.ToLower(s)
}
