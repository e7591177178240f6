// Package ffprobe reads stream metadata from media containers with the ffprobe binary.
package ffprobe

import "time"

const (
	name = "ffprobe"
	// Generous: network mounts and sleeping disks are slow to answer the first read.
	timeout = 60 * time.Second
)
