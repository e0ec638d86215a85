package services

import (
	"context"
	"fmt"
	"os"
)

// StaticModelManager verifies that pre-installed model files exist on disk.
// It performs no network I/O; downloads are someone else's job. Progress is
// reported per file checked.
type StaticModelManager struct {
	Paths []string
}

func (m *StaticModelManager) EnsurePresent(ctx context.Context, progress func(float64)) error {
	n := len(m.Paths)
	if n == 0 {
		if progress != nil {
			progress(1)
		}
		return nil
	}
	for i, p := range m.Paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrModelMissing, p)
		}
		if info.Size() == 0 {
			return fmt.Errorf("%w: %s is empty", ErrChecksumMismatch, p)
		}
		if progress != nil {
			progress(float64(i+1) / float64(n))
		}
	}
	return nil
}
