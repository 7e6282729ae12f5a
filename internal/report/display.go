package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/browser"
)

// Display shows a rendered chart page and blocks until the viewer is done
// with it.
type Display interface {
	Show(ctx context.Context, page []byte) error
}

// BrowserDisplay writes the page to an HTML file, opens it in the default
// browser and waits for Enter on In.
type BrowserDisplay struct {
	// Path is the output file. Empty means a new temp file.
	Path string
	// Open opens the file. Defaults to browser.OpenFile.
	Open func(path string) error
	In   io.Reader
	Out  io.Writer
}

// NewBrowserDisplay returns a display that reads Enter from stdin and
// prints its prompt on stderr.
func NewBrowserDisplay(path string) *BrowserDisplay {
	return &BrowserDisplay{
		Path: path,
		Open: browser.OpenFile,
		In:   os.Stdin,
		Out:  os.Stderr,
	}
}

func (d *BrowserDisplay) Show(ctx context.Context, page []byte) error {
	path, err := d.write(page)
	if err != nil {
		return err
	}

	open := d.Open
	if open == nil {
		open = browser.OpenFile
	}
	if err := open(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	out := d.Out
	if out == nil {
		out = io.Discard
	}
	_, _ = fmt.Fprintf(out, "Charts written to %s\nPress Enter to exit...", path)

	if d.In == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(d.In).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		_, _ = fmt.Fprintln(out)
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *BrowserDisplay) write(page []byte) (string, error) {
	if d.Path != "" {
		if err := os.WriteFile(d.Path, page, 0o644); err != nil {
			return "", fmt.Errorf("write chart page: %w", err)
		}
		return d.Path, nil
	}

	f, err := os.CreateTemp("", "poolbench-*.html")
	if err != nil {
		return "", fmt.Errorf("create chart page: %w", err)
	}
	if _, err := f.Write(page); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write chart page: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close chart page: %w", err)
	}
	return f.Name(), nil
}
