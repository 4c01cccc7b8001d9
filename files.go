/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"os"
)

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

// fileSize returns the size of the file at path, or "unknown size" if it
// cannot be read.
func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown size"
	}

	return humanReadableSize(info.Size())
}
