//go:build !unix && !windows

package fsutil

func isCrossDevice(error) bool { return false }
