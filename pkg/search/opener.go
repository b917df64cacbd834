package search

import (
	"fmt"
	"io"

	"github.com/cli/browser"

	seekerrors "thoreinstein.com/seek/pkg/errors"
)

// Opener hands a URL to something that can display it.
type Opener interface {
	Open(url string) error
}

// BrowserOpener opens URLs in the system default browser.
type BrowserOpener struct{}

// Open launches the default browser without waiting for it.
func (BrowserOpener) Open(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return seekerrors.NewSearchError("open", "", "could not launch browser").WithCause(err)
	}
	return nil
}

// PrintOpener writes URLs to W instead of opening them.
type PrintOpener struct {
	W io.Writer
}

// Open prints url on its own line.
func (p PrintOpener) Open(url string) error {
	_, err := fmt.Fprintln(p.W, url)
	return err
}
