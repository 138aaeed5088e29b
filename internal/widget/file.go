package widget

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ngrash/statusclock/internal/config"
)

// File shows the first line of a file, such as a sysfs attribute.
type File struct {
	name  string
	path  string
	color string

	mu   sync.RWMutex
	text string
	err  error
}

// NewFile returns a File widget for cfg.
func NewFile(cfg config.FileConfig, neutral string) *File {
	color := cfg.Color
	if color == "" {
		color = neutral
	}
	return &File{name: cfg.Name, path: cfg.Path, color: color, err: errNotUpdated}
}

var errNotUpdated = errors.New("not updated yet")

// Name implements Widget.
func (f *File) Name() string { return f.name }

// Update re-reads the file. A failed read is also reported by the next call
// to Value, so the widget is left out of that batch.
func (f *File) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := readFirstLine(f.path)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.err = err
		return err
	}
	f.text, f.err = line, nil
	return nil
}

// Value implements Widget.
func (f *File) Value() (json.RawMessage, error) {
	f.mu.RLock()
	text, err := f.text, f.err
	f.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("widget %s: %w", f.name, err)
	}
	return encode(Block{Name: f.name, FullText: text, Color: f.color})
}

func readFirstLine(path string) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer fh.Close()

	line, err := bufio.NewReader(fh).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
