package domain

import (
	"time"
	_ "time/tzdata" // embed zone data so normalization works in scratch images
)

const (
	sourceZone = "Asia/Kolkata"
	targetZone = "Atlantic/Reykjavik"
)

var (
	sourceLocation = mustLoadLocation(sourceZone)
	targetLocation = mustLoadLocation(targetZone)
)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// ALLOW-PANIC: tzdata is embedded, a failure here is a build defect
		panic("load time zone " + name + ": " + err.Error())
	}
	return loc
}

// NormalizeTimestamp applies the modification-time convention used for
// stored content: the instant is read in Asia/Kolkata, re-expressed in
// Atlantic/Reykjavik (UTC+0, no DST) and truncated to whole seconds.
func NormalizeTimestamp(t time.Time) time.Time {
	return t.In(sourceLocation).In(targetLocation).Truncate(time.Second)
}
