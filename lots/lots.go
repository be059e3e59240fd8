// Package lots reads the work-item identifier list for a run and slices it
// into batches.
package lots

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
)

// Read loads identifiers from path, one per line. Blank lines and lines
// starting with # are skipped, surrounding whitespace is trimmed, and
// duplicate identifiers are dropped while preserving first-seen order.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lots file: %w", err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var items []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lots file: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("lots file %s contains no identifiers", path)
	}
	log.Printf("Lots: loaded %d identifiers from %s", len(items), path)
	return items, nil
}

// SplitBatches partitions items into consecutive groups of at most size,
// preserving order. size <= 0 yields a single batch with everything.
func SplitBatches(items []string, size int) [][]string {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]string{items}
	}
	var batches [][]string
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
