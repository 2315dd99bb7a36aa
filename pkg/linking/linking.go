// Package linking probes and launches external URIs through the host
// platform's opener. It is strictly one-way: nothing is ever read back from
// the launched application.
package linking

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// SystemLauncher opens URIs with the platform opener (xdg-open, open,
// rundll32).
type SystemLauncher struct{}

// CanOpenURL reports whether the host has a handler registered for the URI's
// scheme. Web URLs only need the opener binary; custom wallet schemes are
// probed against the desktop's scheme-handler registry where one exists, and
// otherwise reported as not openable. A false answer is an expected branch,
// not an error.
func (SystemLauncher) CanOpenURL(uri string) bool {
	scheme := uriScheme(uri)
	if scheme == "" {
		return false
	}
	if scheme == "http" || scheme == "https" {
		_, err := exec.LookPath(openerBinary())
		return err == nil
	}
	if runtime.GOOS != "linux" {
		return false
	}
	out, err := exec.Command("xdg-mime", "query", "default", "x-scheme-handler/"+scheme).Output()
	return err == nil && strings.TrimSpace(string(out)) != ""
}

// OpenURL launches the URI and returns without waiting for the handler.
func (SystemLauncher) OpenURL(uri string) error {
	name, args := openerCommand(uri)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", uri, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func uriScheme(uri string) string {
	i := strings.Index(uri, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(uri[:i])
}

func openerBinary() string {
	name, _ := openerCommand("")
	return name
}

func openerCommand(uri string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{uri}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", uri}
	default:
		return "xdg-open", []string{uri}
	}
}
