package di

import (
	"clipkeep/internal/clip"
	"clipkeep/internal/providers"
)

// NewClipboardBackend opens the system clipboard, reporting a headless
// fallback through the clipboard log.
func NewClipboardBackend(logger providers.Logger) clip.Backend {
	return clip.New(func(format string, args ...interface{}) {
		logger.Warnf(providers.TypeClipboard, format, args...)
	})
}
