//go:build !windows

package clipboard

func setText(text string) error {
	return writeFallback(text)
}
