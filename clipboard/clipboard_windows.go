//go:build windows

package clipboard

import (
	"log"
	"syscall"
	"unsafe"
)

var (
	user32                 = syscall.NewLazyDLL("user32.dll")
	kernel32               = syscall.NewLazyDLL("kernel32.dll")
	procOpenClipboard      = user32.NewProc("OpenClipboard")
	procCloseClipboard     = user32.NewProc("CloseClipboard")
	procEmptyClipboard     = user32.NewProc("EmptyClipboard")
	procSetClipboardData   = user32.NewProc("SetClipboardData")
	procGlobalAlloc        = kernel32.NewProc("GlobalAlloc")
	procGlobalLock         = kernel32.NewProc("GlobalLock")
	procGlobalUnlock       = kernel32.NewProc("GlobalUnlock")
	procGlobalFree         = kernel32.NewProc("GlobalFree")
)

const (
	cfText        = 1
	cfUnicodeText = 13
	gmemMoveable  = 0x0002
)

// setText puts text on the clipboard as CF_UNICODETEXT plus a best-effort
// CF_TEXT copy for legacy consumers. Failing the legacy format is non-fatal;
// failing CF_UNICODETEXT falls back to the portable backend.
func setText(text string) error {
	if ok, _, _ := procOpenClipboard.Call(0); ok == 0 {
		log.Printf("Clipboard: OpenClipboard denied, using fallback backend")
		return writeFallback(text)
	}
	defer procCloseClipboard.Call()
	procEmptyClipboard.Call()

	if !setUnicode(text) {
		log.Printf("Clipboard: CF_UNICODETEXT failed, using fallback backend")
		return writeFallback(text)
	}
	if !setLegacy(text) {
		log.Printf("Clipboard: CF_TEXT not set (legacy consumers only), continuing")
	}
	return nil
}

func setUnicode(text string) bool {
	utf16, err := syscall.UTF16FromString(text)
	if err != nil {
		return false
	}
	size := uintptr(len(utf16) * 2)
	return setData(cfUnicodeText, unsafe.Pointer(&utf16[0]), size)
}

func setLegacy(text string) bool {
	// Single-byte text with terminator. Non-ASCII bytes pass through as-is;
	// the target application only ever receives ASCII identifiers.
	buf := append([]byte(text), 0)
	return setData(cfText, unsafe.Pointer(&buf[0]), uintptr(len(buf)))
}

func setData(format uintptr, src unsafe.Pointer, size uintptr) bool {
	handle, _, _ := procGlobalAlloc.Call(gmemMoveable, size)
	if handle == 0 {
		return false
	}
	locked, _, _ := procGlobalLock.Call(handle)
	if locked == 0 {
		procGlobalFree.Call(handle)
		return false
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(locked)), size)
	copy(dst, unsafe.Slice((*byte)(src), size))
	procGlobalUnlock.Call(handle)

	if ok, _, _ := procSetClipboardData.Call(format, handle); ok == 0 {
		// Ownership stays with us on failure.
		procGlobalFree.Call(handle)
		return false
	}
	return true
}
