// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     version
// Description: Central version information for the CLI and servers
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Engine version
	Engine = "1.0.0"

	// Protocol is the version of the websocket and gRPC edit protocol
	Protocol = "v1"
)

// Commit is set at build time with -ldflags "-X .../version.Commit=<sha>"
var Commit = "dev"

// Component returns the version for a given component name
func Component(name string) string {
	switch name {
	case "protocol", "ws", "grpc":
		return Protocol
	default:
		return Engine
	}
}

// String returns the full version line printed by the CLI
func String() string {
	return fmt.Sprintf("dashscript %s (protocol %s, commit %s, %s %s/%s)",
		Engine, Protocol, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
