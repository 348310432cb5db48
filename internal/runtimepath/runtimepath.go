// Package runtimepath locates per-user runtime files such as the IPC socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SocketEnv overrides the socket path for both daemon and clients.
const SocketEnv = "TAGTILE_SOCKET"

// Dir returns $XDG_RUNTIME_DIR, else /run/user/<uid> when it exists, else a
// private directory under /tmp which is created on demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	dir := filepath.Join(os.TempDir(), fmt.Sprintf("tagtile-runtime-%d", uid))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SocketPath returns the IPC socket of the daemon managing $DISPLAY.
func SocketPath() (string, error) {
	return SocketPathFor("")
}

// SocketPathFor returns the IPC socket of the daemon managing display. An
// empty display means $DISPLAY. Each display gets its own socket so one
// daemon per X server can run side by side.
func SocketPathFor(display string) (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName(display)), nil
}

func socketName(display string) string {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	display = strings.TrimPrefix(display, ":")
	display = strings.NewReplacer("/", "-", ":", "-").Replace(display)
	if display == "" {
		return "tagtile.sock"
	}
	return "tagtile-" + display + ".sock"
}
