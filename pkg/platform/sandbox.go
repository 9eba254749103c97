// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"slices"
	"sync"
)

const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"

	flatpakInfoFile = "/.flatpak-info"
)

// detectOnce caches detection for the process lifetime.
// detectSandboxFrom must not panic: sync.OnceValue re-panics on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the application sandbox, if any.
type SandboxType string

// DetectSandbox returns the sandbox the current process runs in. The result
// is computed once.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// SpawnCommandFor returns the helper that runs a command on the host from
// inside st, or "" outside a sandbox.
func SpawnCommandFor(st SandboxType) string {
	switch st {
	case SandboxFlatpak:
		return "flatpak-spawn"
	case SandboxSnap:
		return "snap"
	default:
		return ""
	}
}

// SpawnArgsFor returns the arguments the spawn helper of st expects before
// the host command.
func SpawnArgsFor(st SandboxType) []string {
	switch st {
	case SandboxFlatpak:
		return []string{"--host"}
	case SandboxSnap:
		return []string{"run", "--shell"}
	default:
		return nil
	}
}

// HostCommand rewrites command and args so they run on the host from inside
// st. Outside a sandbox they are returned unchanged.
func HostCommand(st SandboxType, command string, args []string) (string, []string) {
	spawn := SpawnCommandFor(st)
	if spawn == "" {
		return command, args
	}
	wrapped := slices.Concat(SpawnArgsFor(st), []string{command}, args)
	return spawn, wrapped
}

// detectSandboxFrom takes its lookups as parameters so tests need not touch
// process state. Flatpak wins over Snap.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	if err := statFile(flatpakInfoFile); err == nil {
		return SandboxFlatpak
	}
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
