// Package download provides the pipeline orchestration for gfontapi:
// resolve a family, fetch its variants, convert them, write the
// stylesheet.
//
// # Manager
//
// The Manager coordinates one family per invocation:
//
//	conv := convert.NewWOFF2Compress("", 2*time.Minute, false)
//	manager := download.NewManager(settings, apiKey, conv, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, "Open Sans", nil); err != nil {
//	    log.Fatal(err) // auth, not-found, tool-missing
//	}
//	if err := manager.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Stages
//
// A run moves through Resolving → Downloading → Converting → Writing →
// Done, with Failed as the terminal error state. Converter availability
// is checked at the very start so a missing tool aborts before any
// network traffic (fail-fast), unless conversion is skipped in settings.
//
// # Failure model
//
// Stage-level errors that affect every variant (bad credential, unknown
// family, missing tool) abort the run. Per-variant errors (download,
// conversion) are collected: the stylesheet is still written for the
// variants that succeeded, failures are summarized as a warning, and
// only a run with zero survivors returns ErrNoVariants.
//
// # Concurrency
//
// Per-variant work fans out on an errgroup bounded by
// MaxConcurrentDownloads. Downloads retry with exponential backoff
// (DownloadRetryCooldown * DownloadRetryExponent^attempt). Cancellation
// stops new work, lets in-flight work unwind, and never leaves a
// half-written stylesheet behind.
package download
