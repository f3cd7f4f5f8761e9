// Package selection opens search hits outside the terminal.
package selection

import (
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"

	"hybridsearch/internal/domain"
	"hybridsearch/internal/eventbus"
)

// BlankTarget is opened for hits without a link
const BlankTarget = "about:blank"

// Opener shows a target in a new browsing context
type Opener interface {
	Open(target string) error
}

// BrowserOpener hands targets to the platform's default browser
type BrowserOpener struct {
	goos   string
	start  func(name string, args ...string) error
	logger *zap.Logger
}

func NewBrowserOpener(logger *zap.Logger) *BrowserOpener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserOpener{
		goos:   runtime.GOOS,
		start:  startDetached,
		logger: logger.Named("opener"),
	}
}

func (o *BrowserOpener) Open(target string) error {
	if target == "" {
		target = BlankTarget
	}
	name, args := browserCommand(o.goos, target)
	o.logger.Debug("opening", zap.String("target", target), zap.String("command", name))
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}

func browserCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// startDetached launches the command and reaps it in the background
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Selector opens hits and announces them on the event bus.
// It never touches query state.
type Selector struct {
	opener Opener
	bus    eventbus.EventBus
	logger *zap.Logger
}

func NewSelector(opener Opener, bus eventbus.EventBus, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{opener: opener, bus: bus, logger: logger.Named("selection")}
}

// Select opens exactly the hit's link; a hit without one opens an empty target
func (s *Selector) Select(item domain.ChunkMetadata) error {
	target := item.Target()

	if err := s.opener.Open(target); err != nil {
		s.logger.Warn("failed to open selection", zap.String("id", item.ID), zap.Error(err))
		return err
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.SelectionOpenedEvent{Target: target})
	}
	return nil
}
