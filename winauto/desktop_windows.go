//go:build windows

package winauto

import (
	"fmt"
	"strconv"
	"syscall"
	"time"
	"unsafe"

	"github.com/go-vgo/robotgo"
)

var (
	user32                       = syscall.NewLazyDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procEnumChildWindows         = user32.NewProc("EnumChildWindows")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsWindow                 = user32.NewProc("IsWindow")
	procGetWindowText            = user32.NewProc("GetWindowTextW")
	procGetWindowTextLength      = user32.NewProc("GetWindowTextLengthW")
	procGetClassName             = user32.NewProc("GetClassNameW")
	procGetDlgCtrlID             = user32.NewProc("GetDlgCtrlID")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procBringWindowToTop         = user32.NewProc("BringWindowToTop")
	procShowWindow               = user32.NewProc("ShowWindow")
	procSetWindowPos             = user32.NewProc("SetWindowPos")
	procPostMessage              = user32.NewProc("PostMessageW")
	procSendMessage              = user32.NewProc("SendMessageW")
)

const (
	wmKeyDown = 0x0100
	wmKeyUp   = 0x0101
	wmClose   = 0x0010
	bmClick   = 0x00F5

	swRestore = 9

	swpNoMove = 0x0002
	swpNoSize = 0x0001

	hwndTopmost   = ^uintptr(0)     // -1
	hwndNoTopmost = ^uintptr(0) - 1 // -2
)

type winRect struct {
	Left, Top, Right, Bottom int32
}

type win32Desktop struct{}

// NewDesktop returns the win32-backed Desktop.
func NewDesktop() Desktop { return win32Desktop{} }

func windowText(hwnd uintptr) string {
	length, _, _ := procGetWindowTextLength.Call(hwnd)
	if length == 0 {
		return ""
	}
	buf := make([]uint16, length+1)
	procGetWindowText.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), length+1)
	return syscall.UTF16ToString(buf)
}

func (win32Desktop) Windows() ([]Window, error) {
	var windows []Window
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
			return 1 // continue enumeration
		}
		title := windowText(hwnd)
		if title == "" {
			return 1
		}
		var pid uint32
		procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
		var rc winRect
		procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&rc)))
		windows = append(windows, Window{
			Handle: hwnd,
			Title:  title,
			PID:    pid,
			Rect:   Rect{Left: int(rc.Left), Top: int(rc.Top), Right: int(rc.Right), Bottom: int(rc.Bottom)},
		})
		return 1
	})
	ret, _, err := procEnumWindows.Call(cb, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumWindows: %v", err)
	}
	return windows, nil
}

func (win32Desktop) Focus(w Window) error {
	procShowWindow.Call(w.Handle, swRestore)
	procBringWindowToTop.Call(w.Handle)
	ret, _, _ := procSetForegroundWindow.Call(w.Handle)
	if ret == 0 {
		return fmt.Errorf("SetForegroundWindow denied for %q", w.Title)
	}
	return nil
}

func (win32Desktop) Raise(w Window) error {
	// Pin topmost, grab foreground, then restore normal z-order. Works even
	// when the calling process has no foreground rights (remote sessions).
	procSetWindowPos.Call(w.Handle, hwndTopmost, 0, 0, 0, 0, swpNoMove|swpNoSize)
	procSetForegroundWindow.Call(w.Handle)
	time.Sleep(300 * time.Millisecond)
	ret, _, _ := procSetWindowPos.Call(w.Handle, hwndNoTopmost, 0, 0, 0, 0, swpNoMove|swpNoSize)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos failed for %q", w.Title)
	}
	return nil
}

func (win32Desktop) Controls(w Window) ([]Control, error) {
	var controls []Control
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		var class [256]uint16
		n, _, _ := procGetClassName.Call(hwnd, uintptr(unsafe.Pointer(&class[0])), 256)
		id, _, _ := procGetDlgCtrlID.Call(hwnd)
		var rc winRect
		procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&rc)))
		controls = append(controls, Control{
			Handle: hwnd,
			ID:     strconv.Itoa(int(int32(id))),
			Title:  windowText(hwnd),
			Class:  syscall.UTF16ToString(class[:n]),
			Rect:   Rect{Left: int(rc.Left), Top: int(rc.Top), Right: int(rc.Right), Bottom: int(rc.Bottom)},
		})
		return 1
	})
	procEnumChildWindows.Call(w.Handle, cb, 0)
	return controls, nil
}

func (win32Desktop) Invoke(c Control) error {
	if alive, _, _ := procIsWindow.Call(c.Handle); alive == 0 {
		return fmt.Errorf("control %q is gone", c.Title)
	}
	procSendMessage.Call(c.Handle, bmClick, 0, 0)
	return nil
}

func (win32Desktop) ClickAt(x, y int) error {
	robotgo.Move(x, y)
	time.Sleep(200 * time.Millisecond)
	robotgo.Click("left")
	return nil
}

func (win32Desktop) PostKey(w Window, vk uint16) error {
	ret, _, err := procPostMessage.Call(w.Handle, wmKeyDown, uintptr(vk), 0)
	if ret == 0 {
		return fmt.Errorf("PostMessage key-down: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	procPostMessage.Call(w.Handle, wmKeyUp, uintptr(vk), 0)
	return nil
}

func (win32Desktop) SendKey(w Window, vk uint16) error {
	procSendMessage.Call(w.Handle, wmKeyDown, uintptr(vk), 0)
	time.Sleep(50 * time.Millisecond)
	procSendMessage.Call(w.Handle, wmKeyUp, uintptr(vk), 0)
	return nil
}

func (win32Desktop) TapKey(key string) error {
	return robotgo.KeyTap(key)
}

func (win32Desktop) Close(w Window) error {
	ret, _, err := procPostMessage.Call(w.Handle, wmClose, 0, 0)
	if ret == 0 {
		return fmt.Errorf("PostMessage WM_CLOSE: %v", err)
	}
	return nil
}
