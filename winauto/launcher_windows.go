//go:build windows

package winauto

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	shell32          = syscall.NewLazyDLL("shell32.dll")
	procShellExecute = shell32.NewProc("ShellExecuteW")
)

type win32Launcher struct{}

// NewLauncher returns the win32-backed Launcher.
func NewLauncher() Launcher { return win32Launcher{} }

func (win32Launcher) Start(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", path, err)
	}
	// The application outlives us; never wait on it. Release reaps the
	// process handle so the child is fully detached.
	return cmd.Process.Release()
}

func (win32Launcher) OpenDocument(path string) error {
	verb, _ := syscall.UTF16PtrFromString("open")
	file, _ := syscall.UTF16PtrFromString(path)
	const swShowNormal = 1
	ret, _, _ := procShellExecute.Call(0, uintptr(unsafe.Pointer(verb)), uintptr(unsafe.Pointer(file)), 0, 0, swShowNormal)
	// ShellExecute returns a value >32 on success.
	if ret <= 32 {
		return fmt.Errorf("ShellExecute %s: code %d", path, ret)
	}
	return nil
}

func (win32Launcher) RunDetached(path string) error {
	cmd := exec.Command("cmd", "/C", path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}
	return cmd.Process.Release()
}

func (win32Launcher) KillByName(name string) error {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return fmt.Errorf("process snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snapshot, &entry); err != nil {
		return fmt.Errorf("Process32First: %w", err)
	}
	for {
		exe := windows.UTF16ToString(entry.ExeFile[:])
		if strings.Contains(strings.ToLower(exe), strings.ToLower(name)) {
			if h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, entry.ProcessID); err == nil {
				log.Printf("Launcher: terminating leftover process %s (pid %d)", exe, entry.ProcessID)
				windows.TerminateProcess(h, 1)
				windows.CloseHandle(h)
			}
		}
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			break
		}
	}
	return nil
}
