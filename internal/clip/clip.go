// Package clip wraps the system clipboard and the paste keystroke.
package clip

import (
	"errors"

	"golang.design/x/clipboard"
)

var ErrHeadless = errors.New("clipboard unavailable")

// Backend reads and writes plain text and PNG images. Read methods return an
// empty value when the clipboard holds nothing of that kind.
type Backend interface {
	Name() string
	ReadText() string
	ReadImage() []byte
	WriteText(text string) error
	WriteImage(png []byte) error
}

// New returns the native backend, or a headless one when no display is
// available.
func New(logf func(format string, args ...interface{})) Backend {
	if err := clipboard.Init(); err != nil {
		if logf != nil {
			logf("clipboard unavailable, running headless: %s", err)
		}
		return &headlessBackend{}
	}
	return &nativeBackend{}
}

type nativeBackend struct{}

func (b *nativeBackend) Name() string { return "native" }

func (b *nativeBackend) ReadText() string {
	return string(clipboard.Read(clipboard.FmtText))
}

func (b *nativeBackend) ReadImage() []byte {
	return clipboard.Read(clipboard.FmtImage)
}

func (b *nativeBackend) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (b *nativeBackend) WriteImage(png []byte) error {
	if len(png) == 0 {
		return errors.New("empty image")
	}
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}

// headlessBackend never yields content and refuses writes.
type headlessBackend struct{}

func (b *headlessBackend) Name() string              { return "headless" }
func (b *headlessBackend) ReadText() string          { return "" }
func (b *headlessBackend) ReadImage() []byte         { return nil }
func (b *headlessBackend) WriteText(_ string) error  { return ErrHeadless }
func (b *headlessBackend) WriteImage(_ []byte) error { return ErrHeadless }
