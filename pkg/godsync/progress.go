package godsync

import (
	"fmt"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// EventType identifies the stage a ProgressEvent reports on.
type EventType int

const (
	EventSignatureStart EventType = iota
	EventSignatureProgress
	EventSignatureComplete
	EventPlanComplete
	EventApplyStart
	EventApplyProgress
	EventApplyComplete
	EventFetchStart
	EventFetchComplete
)

// ProgressEvent lets callers drive a progress bar or log line without
// coupling the core packages to any particular UI. BuildSignature emits
// the EventSignature* events; Diff, Apply and Pull take no callback and
// emit no events, so the plan, apply and fetch event types are not
// produced by this package.
type ProgressEvent struct {
	Type EventType

	// Current/Total are byte counts for streaming stages (signature
	// build, apply, fetch).
	Current int64
	Total   int64

	// Populated on EventPlanComplete.
	Stats Stats

	// Populated on EventFetchStart/EventFetchComplete.
	RangeStart, RangeEnd uint64
}

// ProgressCallback receives ProgressEvents. A nil callback is always
// safe to invoke through the package's notify helper.
type ProgressCallback func(ProgressEvent)

// ProgressBarCallback returns a ProgressCallback that renders signature
// build and apply progress as mpb bars, plus the Progress container the
// caller must Wait() on after the operation finishes.
func ProgressBarCallback() (ProgressCallback, *mpb.Progress) {
	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100),
	)

	var mu sync.Mutex
	var signatureBar, applyBar *mpb.Bar

	callback := func(event ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()

		switch event.Type {
		case EventSignatureStart:
			signatureBar = progress.AddBar(event.Total,
				mpb.PrependDecorators(
					decor.Name("signature", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
				),
				mpb.AppendDecorators(
					decor.CountersKibiByte("% .1f / % .1f", decor.WC{W: 18}),
					decor.Percentage(decor.WC{W: 5}),
				),
			)

		case EventSignatureProgress:
			if signatureBar != nil {
				signatureBar.SetCurrent(event.Current)
			}

		case EventSignatureComplete:
			if signatureBar != nil {
				signatureBar.SetCurrent(event.Total)
			}

		case EventApplyStart:
			applyBar = progress.AddBar(event.Total,
				mpb.PrependDecorators(
					decor.Name("apply", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
				),
				mpb.AppendDecorators(
					decor.CountersKibiByte("% .1f / % .1f", decor.WC{W: 18}),
					decor.Percentage(decor.WC{W: 5}),
				),
			)

		case EventApplyProgress:
			if applyBar != nil {
				applyBar.SetCurrent(event.Current)
			}

		case EventApplyComplete:
			if applyBar != nil {
				applyBar.SetCurrent(event.Total)
			}
		}
	}

	return callback, progress
}

// FormatSummary renders a Stats value as a human-readable block, the
// kind a CLI prints after a diff or apply completes.
func FormatSummary(stats Stats) string {
	return fmt.Sprintf(
		"Chunks: %d total, %d copied, %d inserted\nBytes:  %d copied, %d inserted\nDedup ratio: %.1f%%\n",
		stats.ChunksTotal, stats.ChunksCopied, stats.ChunksInserted,
		stats.BytesCopied, stats.BytesInserted,
		stats.DedupRatio(),
	)
}

func notify(cb ProgressCallback, event ProgressEvent) {
	if cb != nil {
		cb(event)
	}
}
