package spf

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// PrepareOutput removes any stale result file so the completion wait cannot
// latch onto output from a previous run.
func (d *Driver) PrepareOutput() error {
	err := os.Remove(d.cfg.Paths.OutputCSV)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale output: %w", err)
	}
	return nil
}

// AwaitOutput blocks until the result file size has stayed at the same
// non-zero value for the configured number of consecutive checks. The
// application gives no completion event; a stable file is the only signal
// that it finished writing.
func (d *Driver) AwaitOutput() error {
	path := d.cfg.Paths.OutputCSV
	interval := d.cfg.Timeouts.FileStabilizeInterval()
	needed := d.cfg.Timeouts.FileStabilizeChecks

	start := d.clock.Now()
	deadline := start.Add(d.cfg.Timeouts.Overall())
	lastSize := int64(-1)
	stable := 0

	for {
		size := fileSize(path)
		if size == lastSize && size > 0 {
			stable++
			if stable >= needed {
				log.Printf("Output: %s stable at %d bytes after %s", path, size, d.clock.Now().Sub(start))
				return nil
			}
		} else {
			// A missing file and an empty file both reset the count; the
			// application truncates before it starts writing.
			lastSize = size
			stable = 0
		}
		if !d.clock.Now().Add(interval).Before(deadline) {
			return &OutputTimeoutError{
				Path:     path,
				LastSize: lastSize,
				Elapsed:  d.clock.Now().Sub(start),
			}
		}
		d.clock.Sleep(interval)
	}
}

// CollectOutput copies the finished result file to a per-batch artifact next
// to it and returns the artifact path.
func (d *Driver) CollectOutput(batch, total int) (string, error) {
	src := d.cfg.Paths.OutputCSV
	ext := filepath.Ext(src)
	stem := strings.TrimSuffix(filepath.Base(src), ext)
	dst := filepath.Join(filepath.Dir(src), fmt.Sprintf("%s_batch_%d_of_%d%s", stem, batch, total, ext))

	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("collect output for batch %d: %w", batch, err)
	}
	log.Printf("Output: batch %d/%d result saved to %s", batch, total, dst)
	return dst, nil
}

func fileSize(path string) int64 {
	st, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return st.Size()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
