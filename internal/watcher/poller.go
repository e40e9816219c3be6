// Package watcher samples the system clipboard and records new content.
package watcher

import (
	"context"
	"sync"
	"time"

	"clipkeep/internal/clip"
	"clipkeep/internal/providers"
	"clipkeep/internal/services"
	"clipkeep/internal/structures"

	"github.com/cespare/xxhash/v2"
	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

type PollerInterface interface {
	Start()
	Stop()
	Tick(ctx context.Context)
	Suppress(text string)
	SuppressImage(png []byte)
	Watching() bool
}

// Poller compares each clipboard sample with the last one seen. Text is
// checked before images; an image is only considered when the text did not
// change in the same tick. gron rounds the interval to whole seconds.
type Poller struct {
	backend  clip.Backend
	history  services.HistoryServiceInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	interval time.Duration

	cron     *gron.Cron
	watching atomic.Bool
	tickMu   sync.Mutex

	stateMu   sync.Mutex
	lastText  string
	lastImage uint64
	haveImage bool
	echo      string
	echoSet   bool
}

func NewPoller(conf *structures.Config, backend clip.Backend, history services.HistoryServiceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Poller {
	return &Poller{
		backend:  backend,
		history:  history,
		logger:   logger,
		metrics:  metrics,
		interval: conf.Watcher.Interval,
	}
}

// Start primes the last-seen values so content already on the clipboard is
// not recorded, then schedules Tick. Calling it twice is a no-op.
func (p *Poller) Start() {
	if !p.watching.CompareAndSwap(false, true) {
		return
	}

	p.prime()

	p.cron = gron.New()
	p.cron.AddFunc(gron.Every(p.interval), func() {
		p.Tick(context.Background())
	})
	p.cron.Start()
	p.logger.Infof(providers.TypeClipboard, "Watching clipboard (%s backend) every %s", p.backend.Name(), p.interval)
}

func (p *Poller) prime() {
	text := p.backend.ReadText()
	img := p.backend.ReadImage()

	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	p.lastText = text
	p.haveImage = len(img) > 0
	if p.haveImage {
		p.lastImage = xxhash.Sum64(img)
	}
}

// Stop cancels the schedule and waits for a running tick to finish.
func (p *Poller) Stop() {
	if !p.watching.CompareAndSwap(true, false) {
		return
	}
	p.cron.Stop()
	p.tickMu.Lock()
	p.tickMu.Unlock()
	p.logger.Infof(providers.TypeClipboard, "Clipboard watcher stopped")
}

func (p *Poller) Watching() bool {
	return p.watching.Load()
}

// Suppress marks text as written by this process. The next time the watcher
// sees exactly this text it is skipped once.
func (p *Poller) Suppress(text string) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	if text == p.lastText {
		// nothing will be observed, and an older token no longer matches
		// what was last written
		p.echo, p.echoSet = "", false
		return
	}
	p.echo = text
	p.echoSet = true
}

// SuppressImage marks png as already seen so writing it back to the
// clipboard does not record a duplicate entry.
func (p *Poller) SuppressImage(png []byte) {
	if len(png) == 0 {
		return
	}
	fp := xxhash.Sum64(png)
	p.stateMu.Lock()
	p.lastImage, p.haveImage = fp, true
	p.stateMu.Unlock()
}

type textChange int

const (
	textSame textChange = iota
	textNew
	textEcho
)

// Tick takes one sample. Overlapping ticks are dropped.
func (p *Poller) Tick(ctx context.Context) {
	if !p.tickMu.TryLock() {
		p.logger.Debugf(providers.TypeClipboard, "Previous tick still running, skipping")
		return
	}
	defer p.tickMu.Unlock()

	if text := p.backend.ReadText(); text != "" {
		switch p.observeText(text) {
		case textNew:
			p.recordText(ctx, text)
			return
		case textEcho:
			p.metrics.IncClipboardEvents("echo")
			p.logger.Debugf(providers.TypeClipboard, "Skipped self-written text")
			return
		}
	}

	img := p.backend.ReadImage()
	if len(img) == 0 {
		return
	}
	fp := xxhash.Sum64(img)

	p.stateMu.Lock()
	if p.haveImage && fp == p.lastImage {
		p.stateMu.Unlock()
		return
	}
	p.lastImage, p.haveImage = fp, true
	p.stateMu.Unlock()

	added, err := p.history.AddImage(ctx, img)
	if err != nil {
		p.logger.Errorf(providers.TypeClipboard, "Failed to record image: %s", err)
		return
	}
	if added {
		p.metrics.IncClipboardEvents("image")
		p.logger.Debugf(providers.TypeClipboard, "Recorded image %016x (%d bytes)", fp, len(img))
	}
}

// observeText updates the last seen text. Any new text clears a pending echo
// token; text equal to the token is reported as textEcho.
func (p *Poller) observeText(text string) textChange {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	if text == p.lastText {
		return textSame
	}
	p.lastText = text

	if p.echoSet {
		echo := p.echo
		p.echo, p.echoSet = "", false
		if echo == text {
			return textEcho
		}
	}
	return textNew
}

func (p *Poller) recordText(ctx context.Context, text string) {
	added, err := p.history.AddText(ctx, text)
	if err != nil {
		p.logger.Errorf(providers.TypeClipboard, "Failed to record text: %s", err)
		return
	}
	if added {
		p.metrics.IncClipboardEvents("text")
		p.logger.Debugf(providers.TypeClipboard, "Recorded text (%d bytes)", len(text))
	}
}
