// Package paths resolves filesystem locations for the coredump host
// tools: preferences files, log output, and saved region snapshots. It
// exists so that a "release" build looks in the OS-specific user
// configuration directory while a development build looks in a plain
// ".coredump" directory beneath the working directory, without any
// caller needing to know which.
//
// Example:
//
//	pth, err := paths.ResourcePath("", "prefs.json")
package paths
