package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DropTransport writes every message as an .eml file into a directory.
// It stands in for SMTP during development.
type DropTransport struct {
	dir string
	now func() time.Time
}

// NewDropTransport ensures dir exists.
func NewDropTransport(dir string) (*DropTransport, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create mail drop dir: %w", err)
	}
	return &DropTransport{dir: dir, now: time.Now}, nil
}

func (t *DropTransport) Deliver(ctx context.Context, m *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := buildMsg(m)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(t.dir, t.now().UTC().Format("2006_01_02_150405")+"_"+string(m.Kind)+"_*.eml")
	if err != nil {
		return fmt.Errorf("create drop file: %w", err)
	}
	if _, err := msg.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write drop file: %w", err)
	}
	return f.Close()
}

// Files lists dropped messages sorted by name.
func (t *DropTransport) Files() ([]string, error) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".eml") {
			files = append(files, filepath.Join(t.dir, e.Name()))
		}
	}
	return files, nil
}
