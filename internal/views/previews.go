package views

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cinetalk/cinetalk/internal/shared"
)

// PreviewSet manages local preview files for staged attachments.
//
// Each Acquire materializes the file once under a private temp directory;
// the matching Release removes it. ReleaseAll sweeps whatever is left so
// an abandoned composer never leaks files. Releasing the same name twice
// is an error, which keeps the acquire/release pairing honest.
type PreviewSet struct {
	mu    sync.Mutex
	dir   string
	files map[string]string
}

// NewPreviewSet creates an empty preview set. The temp directory is
// created lazily on first Acquire.
func NewPreviewSet() *PreviewSet {
	return &PreviewSet{files: map[string]string{}}
}

// Acquire writes data to a preview file keyed by name and returns its
// path. Acquiring a name that is already live is an error.
func (p *PreviewSet) Acquire(name string, data []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, live := p.files[name]; live {
		return "", fmt.Errorf("preview already acquired for %s", name)
	}

	if p.dir == "" {
		dir, err := os.MkdirTemp("", "cinetalk-preview-")
		if err != nil {
			return "", fmt.Errorf("failed to create preview directory: %w", err)
		}
		p.dir = dir
	}

	path := filepath.Join(p.dir, shared.GenerateID()+"-"+filepath.Base(name))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write preview file: %w", err)
	}

	p.files[name] = path
	return path, nil
}

// Path returns the live preview path for name, or "".
func (p *PreviewSet) Path(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.files[name]
}

// Live returns how many previews are currently held.
func (p *PreviewSet) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.files)
}

// Release removes the preview file for name. Releasing a name that is
// not live is an error.
func (p *PreviewSet) Release(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	path, live := p.files[name]
	if !live {
		return fmt.Errorf("no live preview for %s", name)
	}
	delete(p.files, name)

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove preview file: %w", err)
	}
	return nil
}

// ReleaseAll removes every live preview and the temp directory itself.
func (p *PreviewSet) ReleaseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, path := range p.files {
		os.Remove(path)
		delete(p.files, name)
	}
	if p.dir != "" {
		os.Remove(p.dir)
		p.dir = ""
	}
}
