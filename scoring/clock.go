package scoring

import (
	"time"

	"housecup/repository"
)

// Elapsed is the presentation clock of a match. A live match counts from
// started_at; any other status shows the value frozen at the last pause.
func Elapsed(match *repository.Match, now time.Time) time.Duration {
	if match.Status == repository.StatusLive && match.StartedAt != nil {
		if d := now.Sub(*match.StartedAt); d > 0 {
			return d
		}
		return 0
	}
	if match.Metadata.ElapsedMs != nil {
		return time.Duration(*match.Metadata.ElapsedMs) * time.Millisecond
	}
	return 0
}

// Remaining counts down from the configured duration and stops at zero.
// Matches without a duration have no countdown.
func Remaining(match *repository.Match, now time.Time) time.Duration {
	if match.DurationMinutes <= 0 {
		return 0
	}
	left := time.Duration(match.DurationMinutes)*time.Minute - Elapsed(match, now)
	if left < 0 {
		return 0
	}
	return left
}

// FreezeElapsed returns the elapsed milliseconds to store when pausing at now.
func FreezeElapsed(startedAt *time.Time, now time.Time) int64 {
	if startedAt == nil {
		return 0
	}
	ms := now.Sub(*startedAt).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// ResumeAnchor returns the started_at that makes the clock continue from
// elapsedMs when resuming at now.
func ResumeAnchor(elapsedMs *int64, now time.Time) time.Time {
	if elapsedMs == nil {
		return now
	}
	return now.Add(-time.Duration(*elapsedMs) * time.Millisecond)
}
