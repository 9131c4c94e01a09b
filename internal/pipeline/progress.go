package pipeline

import (
	"fmt"
	"time"
)

// Progress tracks build progress.
type Progress struct {
	Phase        string // "vocab", "encode", "done", "error"
	GamesFound   int64
	GamesLoaded  int64
	GamesWritten int64
	StartTime    time.Time
	Error        error
}

// ProgressFunc is called periodically with progress updates.
type ProgressFunc func(Progress)

// FormatDuration formats duration as human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// FormatCount formats a count with thousands separators.
func FormatCount(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatCount(n/1000), n%1000)
}

// DefaultProgressFunc prints progress to stdout.
func DefaultProgressFunc(p Progress) {
	switch p.Phase {
	case "vocab":
		fmt.Printf("\r[Vocab] %s games scanned", FormatCount(p.GamesFound))
	case "encode":
		fmt.Printf("\r[Encode] %s / %s games written",
			FormatCount(p.GamesWritten), FormatCount(p.GamesFound))
	case "done":
		elapsed := time.Since(p.StartTime)
		fmt.Printf("\n[Done] %s of %s games written (%s)\n",
			FormatCount(p.GamesWritten), FormatCount(p.GamesFound), FormatDuration(elapsed))
	case "error":
		fmt.Printf("\n[Error] %v\n", p.Error)
	}
}
