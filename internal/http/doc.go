// Package http provides a thin HTTP client wrapper for gfontapi.
//
// The Client handles the two kinds of traffic the pipeline produces:
//
//   - Metadata requests against the Google Webfonts API (Get)
//   - Font file downloads streamed to disk (DownloadFile)
//
// Non-200 responses surface as *StatusError so callers can classify
// failures by status code, and downloads accept an optional progress
// callback driven by ProgressWriter:
//
//	client := http.NewClient(60 * time.Second)
//	err := client.DownloadFile(ctx, url, dest, func(written, total int64) {
//	    fmt.Printf("%d/%d bytes\n", written, total)
//	})
//
// The package intentionally shadows net/http's name; import it with an
// alias (the rest of the codebase uses httpx).
package http
