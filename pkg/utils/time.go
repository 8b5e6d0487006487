package utils

import "time"

// NowMillis returns the current time as milliseconds since the Unix epoch,
// the timestamp unit used on nodes and edges.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// MillisToTime converts an epoch-millisecond timestamp back to time.Time.
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}
