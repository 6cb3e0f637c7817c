package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gfontapi/gfontapi/internal/config"
	"github.com/gfontapi/gfontapi/internal/convert"
	"github.com/gfontapi/gfontapi/internal/css"
	"github.com/gfontapi/gfontapi/internal/fontfile"
	"github.com/gfontapi/gfontapi/internal/gfonts"
	httpx "github.com/gfontapi/gfontapi/internal/http"
	ioutils "github.com/gfontapi/gfontapi/internal/io"
	"github.com/gfontapi/gfontapi/internal/model"
	"golang.org/x/sync/errgroup"
)

// ErrNoVariants is returned by Run when not a single variant made it
// through the pipeline. No stylesheet is written in that case and the
// process should exit non-zero.
var ErrNoVariants = errors.New("no variants made it through the pipeline")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates one font family through the pipeline:
// resolve, download, convert, write stylesheet.
type Manager struct {
	settings   *config.Settings
	httpClient *httpx.Client
	resolver   *gfonts.Resolver
	converter  convert.Converter
	stylesheet *css.Generator

	family  *model.FontFamily
	results []*model.VariantResult

	stage         atomic.Int32
	totalVariants int32
	doneVariants  int32
	totalBytes    int64
	receivedBytes int64

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a pipeline Manager.
//
// The API key comes from the caller (flag or environment, never from
// settings). The converter is injected so the TUI, the CLI, and tests
// can all drive the same orchestration.
func NewManager(settings *config.Settings, apiKey string, converter convert.Converter, onProgress func(ProgressEvent)) *Manager {
	httpClient := httpx.NewClient(time.Duration(settings.DownloadTimeoutSeconds) * time.Second)

	return &Manager{
		settings:   settings,
		httpClient: httpClient,
		resolver:   gfonts.NewResolver(httpClient, settings.APIBaseURL, apiKey, settings.ToPathConfig()),
		converter:  converter,
		stylesheet: css.NewGenerator(),
		onProgress: onProgress,
	}
}

// Initialize resolves the family and prepares the variant set.
//
// Fail-fast ordering: when conversion is enabled, the converter's
// availability is checked before anything touches the network, so a
// missing woff2_compress aborts before a single byte is downloaded.
//
// filter optionally restricts the run to a subset of (weight, style)
// pairs; an empty filter keeps every variant the family has.
func (m *Manager) Initialize(ctx context.Context, familyName string, filter []model.VariantKey) error {
	m.setStage(StageResolving)

	if !m.settings.SkipConversion {
		if err := m.converter.Available(); err != nil {
			m.setStage(StageFailed)
			return err
		}
	}

	res, err := m.resolver.Resolve(ctx, familyName)
	if err != nil {
		m.setStage(StageFailed)
		return err
	}

	for _, skipped := range res.SkippedVariants {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping unrecognized variant %q", skipped), Level: LevelWarning})
	}

	family := res.Family
	if len(filter) > 0 {
		family.Variants = filterVariants(family.Variants, filter)
		if len(family.Variants) == 0 {
			m.setStage(StageFailed)
			return fmt.Errorf("family %q has none of the requested variants", family.Name)
		}
	}

	m.mu.Lock()
	m.family = family
	m.mu.Unlock()
	atomic.StoreInt32(&m.totalVariants, int32(len(family.Variants)))

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Resolved %s (%s, %d variants)", family.Name, family.Category, len(family.Variants)),
		Level:   LevelInfo,
	})

	m.calculateTotals(ctx)

	return nil
}

// Run executes the download, convert, and write stages.
//
// Per-variant failures are collected, reported, and never abort the
// others. Run returns nil when at least one variant reaches the
// stylesheet; ErrNoVariants when none did; the underlying error for
// fatal conditions (filesystem failure, cancellation, stylesheet write
// failure).
func (m *Manager) Run(ctx context.Context) error {
	family := m.Family()
	if family == nil {
		return errors.New("manager not initialized")
	}

	if err := ioutils.EnsureDir(family.Dir); err != nil {
		m.setStage(StageFailed)
		return fmt.Errorf("create font directory %s: %w", family.Dir, err)
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created font directory at %s", family.Dir), Level: LevelVerbose})

	m.setStage(StageDownloading)
	downloaded := m.downloadAll(ctx, family)

	if err := ctx.Err(); err != nil {
		m.setStage(StageFailed)
		return err
	}

	if m.settings.SkipConversion {
		m.mu.Lock()
		for _, v := range downloaded {
			m.results = append(m.results, &model.VariantResult{Variant: v, Path: v.TTFPath})
		}
		m.mu.Unlock()
	} else {
		m.setStage(StageConverting)
		m.convertAll(ctx, downloaded)

		if err := ctx.Err(); err != nil {
			m.setStage(StageFailed)
			return err
		}
	}

	m.setStage(StageWriting)

	results := m.Results()
	successes := model.SuccessfulResults(results)
	if len(successes) == 0 {
		m.setStage(StageFailed)
		return fmt.Errorf("%w (family %q)", ErrNoVariants, family.Name)
	}

	path, err := m.stylesheet.Write(ctx, family, results)
	if err != nil {
		m.setStage(StageFailed)
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Wrote stylesheet to %s", path), Level: LevelSuccess})

	if failed := model.FailedResults(results); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, r := range failed {
			names[i] = r.Variant.Name()
		}
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("%d of %d variants failed: %v", len(failed), len(results), names),
			Level:   LevelWarning,
		})
	}

	m.setStage(StageDone)
	return nil
}

// downloadAll fetches every variant concurrently and returns the ones
// that landed on disk. Failures are recorded as results immediately.
func (m *Manager) downloadAll(ctx context.Context, family *model.FontFamily) []*model.Variant {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentDownloads)

	var mu sync.Mutex
	var downloaded []*model.Variant

	for _, variant := range family.Variants {
		g.Go(func() error {
			if err := m.downloadVariant(ctx, family, variant); err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", variant.Name(), err), Level: LevelError})
				m.recordResult(&model.VariantResult{Variant: variant, Err: err})
				return nil // other variants continue
			}
			mu.Lock()
			downloaded = append(downloaded, variant)
			mu.Unlock()
			return nil
		})
	}

	g.Wait()

	mu.Lock()
	defer mu.Unlock()
	model.SortVariants(downloaded)
	return downloaded
}

// downloadVariant fetches one variant with retries and verifies the
// payload is an SFNT font.
func (m *Manager) downloadVariant(ctx context.Context, family *model.FontFamily, variant *model.Variant) error {
	var err error
	for tries := 0; tries < m.settings.DownloadMaxRetries; tries++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var lastWritten int64
		err = m.httpClient.DownloadFile(ctx, variant.URL, variant.TTFPath, func(written, total int64) {
			atomic.AddInt64(&m.receivedBytes, written-lastWritten)
			lastWritten = written
		})
		if err == nil {
			break
		}
		if tries+1 < m.settings.DownloadMaxRetries {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, m.settings.DownloadMaxRetries-1, variant.Name()),
				Level:   LevelWarning,
			})
			m.waitForRetry(ctx, tries)
		}
	}
	if err != nil {
		return err
	}

	// A 200 response with a non-font body (API quota page, CDN error
	// page) must not reach the converter.
	if err := m.checkPayload(variant.TTFPath); err != nil {
		os.Remove(variant.TTFPath)
		return err
	}

	atomic.AddInt32(&m.doneVariants, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %s==%s", family.Slug, variant.Name()), Level: LevelVerbose})
	return nil
}

// checkPayload sniffs the downloaded file's magic and runs a deep SFNT
// parse. The sniff failing fails the variant; the deep parse failing is
// reported but tolerated, since some fonts trip strict parsers yet
// convert fine.
func (m *Manager) checkPayload(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	magic := make([]byte, 4)
	_, readErr := io.ReadFull(f, magic)
	f.Close()
	if readErr != nil {
		return fmt.Errorf("read %s: %w", path, readErr)
	}

	if format := fontfile.Sniff(magic); !format.IsSFNT() {
		return fmt.Errorf("downloaded %s is not a font (detected %s)", filepath.Base(path), format)
	}

	if name, err := fontfile.ValidateSFNT(path); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Font %s did not parse cleanly: %v", filepath.Base(path), err), Level: LevelWarning})
	} else if name != "" {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Verified %s (%s)", filepath.Base(path), name), Level: LevelVerbose})
	}

	return nil
}

// convertAll transcodes the downloaded variants concurrently, recording
// one result per variant.
func (m *Manager) convertAll(ctx context.Context, variants []*model.Variant) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentDownloads)

	total := len(variants)
	var converted int32

	for _, variant := range variants {
		g.Go(func() error {
			res, err := m.converter.Convert(ctx, variant.TTFPath)
			if err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error converting %s: %v", variant.Name(), err), Level: LevelError})
				m.recordResult(&model.VariantResult{Variant: variant, Err: err})
				return nil
			}

			if err := fontfile.ValidateWOFF2(res.OutputPath); err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Converted %s did not decode cleanly: %v", variant.Name(), err), Level: LevelWarning})
			}

			m.recordResult(&model.VariantResult{Variant: variant, Path: res.OutputPath, TaskID: res.TaskID})
			n := atomic.AddInt32(&converted, 1)
			m.progress(ProgressEvent{Message: fmt.Sprintf("Converted %s (%d/%d, task %s)", variant.Name(), n, total, res.TaskID), Level: LevelVerbose})
			return nil
		})
	}

	g.Wait()
}

// calculateTotals pre-computes the expected download size via HEAD
// requests. Best-effort: servers without Content-Length just leave the
// total at zero.
func (m *Manager) calculateTotals(ctx context.Context) {
	family := m.Family()
	if family == nil {
		return
	}
	for _, variant := range family.Variants {
		size, err := m.httpClient.GetFileSize(ctx, variant.URL)
		if err == nil {
			atomic.AddInt64(&m.totalBytes, size)
		}
	}
}

// waitForRetry sleeps with exponential backoff, respecting cancellation.
func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

// Family returns the resolved family, or nil before Initialize.
func (m *Manager) Family() *model.FontFamily {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.family
}

// Results returns a copy of the per-variant results recorded so far.
func (m *Manager) Results() []*model.VariantResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.VariantResult, len(m.results))
	copy(out, m.results)
	return out
}

// Stage returns the pipeline's current stage.
func (m *Manager) Stage() Stage {
	return Stage(m.stage.Load())
}

// GetProgress returns current progress: bytes received, expected bytes,
// variants completed, variants total.
func (m *Manager) GetProgress() (received, total int64, done, totalVariants int32) {
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt64(&m.totalBytes),
		atomic.LoadInt32(&m.doneVariants), atomic.LoadInt32(&m.totalVariants)
}

func (m *Manager) recordResult(r *model.VariantResult) {
	m.mu.Lock()
	m.results = append(m.results, r)
	m.mu.Unlock()
}

func (m *Manager) setStage(s Stage) {
	// Failed and Done are terminal.
	current := Stage(m.stage.Load())
	if current == StageFailed || current == StageDone {
		return
	}
	m.stage.Store(int32(s))
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// filterVariants keeps only variants whose (weight, style) pair appears
// in keys.
func filterVariants(variants []*model.Variant, keys []model.VariantKey) []*model.Variant {
	want := make(map[model.VariantKey]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	var kept []*model.Variant
	for _, v := range variants {
		if _, ok := want[v.Key()]; ok {
			kept = append(kept, v)
		}
	}
	return kept
}
