package download

// Stage identifies where in the pipeline a run currently is.
//
// A run moves Resolving → Downloading → Converting → Writing → Done.
// Failed is terminal and reachable from any stage on an unrecoverable
// error; per-variant failures during Downloading or Converting do not
// enter Failed as long as at least one variant survives to Writing.
type Stage int32

const (
	// StageIdle is the state before Initialize runs.
	StageIdle Stage = iota

	// StageResolving is querying the metadata API.
	StageResolving

	// StageDownloading is fetching variant font files.
	StageDownloading

	// StageConverting is transcoding downloaded files to WOFF2.
	StageConverting

	// StageWriting is producing the stylesheet artifact.
	StageWriting

	// StageDone is the successful terminal state.
	StageDone

	// StageFailed is the unsuccessful terminal state.
	StageFailed
)

// String returns the stage name for progress output.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageResolving:
		return "resolving"
	case StageDownloading:
		return "downloading"
	case StageConverting:
		return "converting"
	case StageWriting:
		return "writing"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}
