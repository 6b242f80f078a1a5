// Package snapshot captures PNG screenshots of every story's Hero at a set
// of viewport widths using a headless Chrome driven by rod.
package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/conneroisu/herobook/internal/config"
	"github.com/conneroisu/herobook/internal/components/hero"
	"github.com/conneroisu/herobook/internal/logging"
)

// Shot is one screenshot to take.
type Shot struct {
	Slug   string `json:"slug"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Path   string `json:"path"`
}

// Plan lists one shot per story and width, story-major, writing to
// <outDir>/<slug>-<width>.png.
func Plan(slugs []string, cfg config.SnapshotConfig) []Shot {
	shots := make([]Shot, 0, len(slugs)*len(cfg.Widths))
	for _, slug := range slugs {
		for _, width := range cfg.Widths {
			shots = append(shots, Shot{
				Slug:   slug,
				Width:  width,
				Height: cfg.Height,
				Path:   filepath.Join(cfg.OutputDir, slug+"-"+strconv.Itoa(width)+".png"),
			})
		}
	}
	return shots
}

// StoryURL is the preview page of a story on a running server.
func StoryURL(baseURL, slug string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	return base.JoinPath("render", slug).String(), nil
}

// heroSelector matches the root element of a rendered Hero.
var heroSelector = fmt.Sprintf("[%s=%q]", hero.MarkerAttr, hero.MarkerRoot)

// Capturer owns a browser for the duration of a snapshot run
type Capturer struct {
	cfg      config.SnapshotConfig
	logger   logging.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewCapturer creates a capturer. Start must be called before Capture.
func NewCapturer(cfg config.SnapshotConfig, logger logging.Logger) *Capturer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Capturer{cfg: cfg, logger: logger.WithComponent("snapshot")}
}

// Start launches headless Chrome, or the binary named in the config, and
// connects to it.
func (c *Capturer) Start(ctx context.Context) error {
	l := launcher.New().Headless(true).Context(ctx)
	if c.cfg.Browser != "" {
		l = l.Bin(c.cfg.Browser)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	c.launcher = l

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connect to browser: %w", err)
	}
	c.browser = browser

	c.logger.Debug(ctx, "Browser connected", "control_url", controlURL)
	return nil
}

// Capture takes every shot against the server at baseURL. progress, if not
// nil, is called after each shot is written.
func (c *Capturer) Capture(ctx context.Context, baseURL string, shots []Shot, progress func(done int, shot Shot)) error {
	if c.browser == nil {
		return fmt.Errorf("capturer not started")
	}

	if err := os.MkdirAll(c.cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory %s: %w", c.cfg.OutputDir, err)
	}

	page, err := c.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	op := logging.StartOperation(c.logger, "snapshot")
	for i, shot := range shots {
		if err := c.captureOne(ctx, page, baseURL, shot); err != nil {
			err = fmt.Errorf("snapshot %s at %dpx: %w", shot.Slug, shot.Width, err)
			op.EndWithError(ctx, err)
			return err
		}
		if progress != nil {
			progress(i+1, shot)
		}
	}
	op.End(ctx)
	return nil
}

func (c *Capturer) captureOne(ctx context.Context, page *rod.Page, baseURL string, shot Shot) error {
	target, err := StoryURL(baseURL, shot.Slug)
	if err != nil {
		return err
	}

	start := time.Now()
	p := page.Context(ctx).Timeout(c.cfg.Timeout)
	defer p.CancelTimeout()

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             shot.Width,
		Height:            shot.Height,
		DeviceScaleFactor: 1,
		Mobile:            shot.Width < 600,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}

	if err := p.Navigate(target); err != nil {
		return fmt.Errorf("navigate to %s: %w", target, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}

	el, err := p.Element(heroSelector)
	if err != nil {
		return fmt.Errorf("find hero: %w", err)
	}

	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}

	if err := os.WriteFile(shot.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", shot.Path, err)
	}

	c.logger.Debug(ctx, "Snapshot written",
		"slug", shot.Slug, "width", shot.Width, "path", shot.Path,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Close disconnects from and stops the browser
func (c *Capturer) Close() error {
	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	if c.launcher != nil {
		c.launcher.Kill()
		c.launcher.Cleanup()
		c.launcher = nil
	}
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}
