package rod

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fwojciec/newsgather"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is how many pages a browser opens before it is replaced.
const DefaultMaxPages = 75

// chromeFlags keep background pages rendering at full speed and skip image
// decoding, which extraction never needs.
var chromeFlags = map[flags.Flag]string{
	"disable-background-timer-throttling":    "",
	"disable-backgrounding-occluded-windows": "",
	"disable-renderer-backgrounding":         "",
	"disable-dev-shm-usage":                  "",
	"disable-hang-monitor":                   "",
	"mute-audio":                             "",
	"blink-settings":                         "imagesEnabled=false",
}

// BrowserManager owns the headless Chrome shared by concurrent fetches.
//
// News sites are heavy on scripts and ads, and Chrome's memory keeps growing
// even after their pages close, so the browser is replaced once it has opened
// maxPages pages. The replacement waits until every page opened on the old
// browser is released; callers asking for a page meanwhile block.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	drained  *sync.Cond
	browser  *rod.Browser
	launcher *launcher.Launcher
	opened   int // pages opened on the current browser
	inUse    int // pages not yet released
	closed   bool

	maxPages int
	bin      string
	logger   *slog.Logger
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a browser opens before it is replaced.
// Zero or less never replaces it. Defaults to DefaultMaxPages.
func WithMaxPages(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBrowserBin sets the Chrome executable to launch. By default rod looks
// for a local installation and downloads Chromium when there is none.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithManagerLogger sets the logger that reports browser replacements.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = logger
	}
}

// NewBrowserManager launches a headless Chrome. Close must be called when
// the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		logger:   slog.New(slog.DiscardHandler),
	}
	bm.drained = sync.NewCond(&bm.mu)
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := launch(bm.bin)
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, l
	return bm, nil
}

// Page opens a blank page on the current browser, replacing the browser
// first when it is due. release closes the page; it must be called once the
// page is no longer needed and is safe to call more than once.
func (bm *BrowserManager) Page() (page *rod.Page, release func(), err error) {
	bm.mu.Lock()
	for !bm.closed && bm.maxPages > 0 && bm.opened >= bm.maxPages {
		if bm.inUse == 0 {
			bm.recycle()
			break
		}
		bm.drained.Wait()
	}
	if bm.closed {
		bm.mu.Unlock()
		return nil, nil, newsgather.Errorf(newsgather.EINVALID, "browser is closed")
	}
	browser := bm.browser
	bm.opened++
	bm.inUse++
	bm.mu.Unlock()

	page, err = browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		bm.done()
		return nil, nil, err
	}

	var once sync.Once
	release = func() {
		once.Do(func() {
			_ = page.Close()
			bm.done()
		})
	}
	return page, release, nil
}

// done marks one page as released and wakes callers waiting to recycle.
func (bm *BrowserManager) done() {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bm.inUse--
	if bm.inUse == 0 {
		bm.drained.Broadcast()
	}
}

// recycle swaps in a fresh browser. The old one stays when the new one
// fails to start. Must be called with mu held and no page in use.
func (bm *BrowserManager) recycle() {
	opened := bm.opened
	bm.opened = 0

	browser, l, err := launch(bm.bin)
	if err != nil {
		bm.logger.Warn("browser recycle failed", "pages", opened, "err", err)
		return
	}
	_ = shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = browser, l
	bm.logger.Info("browser recycled", "pages", opened, "pid", l.PID())
}

// Close shuts the browser down. Pages still in use fail on their next
// operation. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	bm.drained.Broadcast()

	err := shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = nil, nil
	return err
}

// LauncherPID returns the process ID of the current browser launcher, or
// zero after Close.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

func launch(bin string) (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().Headless(true).Leakless(true)
	for name, value := range chromeFlags {
		if value == "" {
			l.Set(name)
		} else {
			l.Set(name, value)
		}
	}
	if bin != "" {
		l.Bin(bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}

func shutdown(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
