package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gfontapi/gfontapi/internal/config"
	"github.com/gfontapi/gfontapi/internal/convert"
	"github.com/gfontapi/gfontapi/internal/model"
)

// ttfPayload carries the TrueType magic so the download sniff passes.
var ttfPayload = append([]byte{0x00, 0x01, 0x00, 0x00}, []byte("fake font tables")...)

// fakeConverter implements convert.Converter for tests.
type fakeConverter struct {
	availableErr error
	failInputs   map[string]bool // base names that should fail

	mu    sync.Mutex
	calls []string
}

func (f *fakeConverter) Available() error { return f.availableErr }

func (f *fakeConverter) Convert(ctx context.Context, inputPath string) (*convert.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filepath.Base(inputPath))
	f.mu.Unlock()

	if f.failInputs[filepath.Base(inputPath)] {
		return nil, &convert.ConversionError{InputPath: inputPath, Err: errors.New("tool exploded")}
	}

	outputPath := strings.TrimSuffix(inputPath, ".ttf") + ".woff2"
	if err := os.WriteFile(outputPath, []byte("wOF2data"), 0644); err != nil {
		return nil, err
	}
	return &convert.Result{TaskID: "convert-test", InputPath: inputPath, OutputPath: outputPath}, nil
}

// newTestServer serves the metadata API and the font files from one
// httptest server, returning the server and a hit counter.
func newTestServer(t *testing.T, fontStatus map[string]int) (*httptest.Server, *int64) {
	t.Helper()
	var hits int64

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)

		if strings.HasPrefix(r.URL.Path, "/files/") {
			name := strings.TrimPrefix(r.URL.Path, "/files/")
			if status, ok := fontStatus[name]; ok {
				http.Error(w, "unavailable", status)
				return
			}
			w.Write(ttfPayload)
			return
		}

		// Metadata endpoint.
		fmt.Fprintf(w, `{
			"items": [{
				"family": "Open Sans",
				"category": "sans-serif",
				"files": {
					"regular": "%[1]s/files/regular",
					"italic": "%[1]s/files/italic",
					"700": "%[1]s/files/700"
				}
			}]
		}`, srv.URL)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestManager(t *testing.T, srvURL string, conv convert.Converter) (*Manager, *config.Settings) {
	t.Helper()
	settings := config.DefaultSettings()
	settings.TargetDir = t.TempDir()
	settings.APIBaseURL = srvURL
	settings.DownloadMaxRetries = 2
	settings.DownloadRetryCooldown = 0.01
	return NewManager(settings, "test-key", conv, nil), settings
}

func TestManager_FullPipeline(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	conv := &fakeConverter{}
	manager, _ := newTestManager(t, srv.URL, conv)

	ctx := context.Background()
	if err := manager.Initialize(ctx, "open sans", nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := manager.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := manager.Stage(); got != StageDone {
		t.Errorf("Stage = %s, want done", got)
	}

	family := manager.Family()
	data, err := os.ReadFile(family.StylesheetPath)
	if err != nil {
		t.Fatalf("stylesheet missing: %v", err)
	}
	if n := strings.Count(string(data), "@font-face"); n != 3 {
		t.Errorf("stylesheet has %d rules, want 3", n)
	}
	if !strings.Contains(string(data), `url("open-sans-regular.woff2")`) {
		t.Errorf("stylesheet missing woff2 reference:\n%s", data)
	}

	results := manager.Results()
	if len(results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(results))
	}
	for _, r := range results {
		if !r.OK() {
			t.Errorf("variant %s failed: %v", r.Variant.Name(), r.Err)
		}
	}
}

func TestManager_PartialConversionFailure(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	conv := &fakeConverter{failInputs: map[string]bool{"open-sans-bold.ttf": true}}
	manager, _ := newTestManager(t, srv.URL, conv)

	ctx := context.Background()
	if err := manager.Initialize(ctx, "Open Sans", nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	// Partial success is still a successful run.
	if err := manager.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(manager.Family().StylesheetPath)
	if err != nil {
		t.Fatalf("stylesheet missing: %v", err)
	}
	if n := strings.Count(string(data), "@font-face"); n != 2 {
		t.Errorf("stylesheet has %d rules, want 2", n)
	}
	if strings.Contains(string(data), "open-sans-bold.woff2") {
		t.Error("failed variant must not appear in the stylesheet")
	}

	if failed := model.FailedResults(manager.Results()); len(failed) != 1 {
		t.Errorf("len(failed) = %d, want 1", len(failed))
	}
}

func TestManager_AllConversionsFail(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	conv := &fakeConverter{failInputs: map[string]bool{
		"open-sans-regular.ttf":        true,
		"open-sans-regular-italic.ttf": true,
		"open-sans-bold.ttf":           true,
	}}
	manager, _ := newTestManager(t, srv.URL, conv)

	ctx := context.Background()
	if err := manager.Initialize(ctx, "Open Sans", nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	err := manager.Run(ctx)
	if !errors.Is(err, ErrNoVariants) {
		t.Fatalf("Run error = %v, want ErrNoVariants", err)
	}
	if got := manager.Stage(); got != StageFailed {
		t.Errorf("Stage = %s, want failed", got)
	}
	if _, err := os.Stat(manager.Family().StylesheetPath); !os.IsNotExist(err) {
		t.Error("no stylesheet should be written when every variant fails")
	}
}

func TestManager_ToolMissingFailsBeforeAnyNetworkCall(t *testing.T) {
	srv, hits := newTestServer(t, nil)
	missing := &convert.ToolMissingError{Tool: "woff2_compress", Searched: []string{"$PATH"}}
	conv := &fakeConverter{availableErr: missing}
	manager, _ := newTestManager(t, srv.URL, conv)

	err := manager.Initialize(context.Background(), "Open Sans", nil)

	var toolErr *convert.ToolMissingError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolMissingError, got %v", err)
	}
	if got := atomic.LoadInt64(hits); got != 0 {
		t.Errorf("server received %d requests, want 0 (fail-fast)", got)
	}
}

func TestManager_SkipConversionToleratesMissingTool(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	missing := &convert.ToolMissingError{Tool: "woff2_compress"}
	conv := &fakeConverter{availableErr: missing}
	manager, settings := newTestManager(t, srv.URL, conv)
	settings.SkipConversion = true

	ctx := context.Background()
	if err := manager.Initialize(ctx, "Open Sans", nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := manager.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(manager.Family().StylesheetPath)
	if err != nil {
		t.Fatalf("stylesheet missing: %v", err)
	}
	if !strings.Contains(string(data), `format("truetype")`) {
		t.Error("skip-conversion stylesheet should reference truetype files")
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	if len(conv.calls) != 0 {
		t.Errorf("converter ran %d times in skip mode", len(conv.calls))
	}
}

func TestManager_PartialDownloadFailure(t *testing.T) {
	srv, _ := newTestServer(t, map[string]int{"700": http.StatusNotFound})
	conv := &fakeConverter{}
	manager, _ := newTestManager(t, srv.URL, conv)

	ctx := context.Background()
	if err := manager.Initialize(ctx, "Open Sans", nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := manager.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, _ := os.ReadFile(manager.Family().StylesheetPath)
	if n := strings.Count(string(data), "@font-face"); n != 2 {
		t.Errorf("stylesheet has %d rules, want 2", n)
	}

	failed := model.FailedResults(manager.Results())
	if len(failed) != 1 || failed[0].Variant.Name() != "bold" {
		t.Errorf("unexpected failed results: %+v", failed)
	}
}

func TestManager_NonFontPayloadFailsVariant(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/files/") {
			// 200 OK, but an error page instead of a font.
			w.Write([]byte("<html>quota exceeded</html>"))
			return
		}
		fmt.Fprintf(w, `{"items": [{"family": "Roboto", "files": {"regular": "%s/files/regular"}}]}`, srv.URL)
	}))
	defer srv.Close()

	conv := &fakeConverter{}
	manager, _ := newTestManager(t, srv.URL, conv)

	ctx := context.Background()
	if err := manager.Initialize(ctx, "Roboto", nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	err := manager.Run(ctx)
	if !errors.Is(err, ErrNoVariants) {
		t.Fatalf("Run error = %v, want ErrNoVariants", err)
	}

	// The bogus download is cleaned up.
	family := manager.Family()
	if _, err := os.Stat(family.Variants[0].TTFPath); !os.IsNotExist(err) {
		t.Error("non-font payload should have been removed")
	}
}

func TestManager_CancellationDuringDownload(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/files/") {
			if r.Method == http.MethodHead {
				return
			}
			// Stall until the client gives up.
			<-r.Context().Done()
			return
		}
		fmt.Fprintf(w, `{"items": [{"family": "Roboto", "files": {"regular": "%s/files/regular"}}]}`, srv.URL)
	}))
	defer srv.Close()

	manager, _ := newTestManager(t, srv.URL, &fakeConverter{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := manager.Initialize(ctx, "Roboto", nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	time.AfterFunc(50*time.Millisecond, cancel)

	err := manager.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if got := manager.Stage(); got != StageFailed {
		t.Errorf("Stage = %s, want failed", got)
	}
	if _, err := os.Stat(manager.Family().StylesheetPath); !os.IsNotExist(err) {
		t.Error("no stylesheet should exist after cancellation")
	}
}

func TestManager_TruncatedPayloadFailsVariant(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/files/") {
			// 200 OK, but shorter than any font magic.
			w.Write([]byte{0x00, 0x01})
			return
		}
		fmt.Fprintf(w, `{"items": [{"family": "Roboto", "files": {"regular": "%s/files/regular"}}]}`, srv.URL)
	}))
	defer srv.Close()

	manager, _ := newTestManager(t, srv.URL, &fakeConverter{})

	ctx := context.Background()
	if err := manager.Initialize(ctx, "Roboto", nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	err := manager.Run(ctx)
	if !errors.Is(err, ErrNoVariants) {
		t.Fatalf("Run error = %v, want ErrNoVariants", err)
	}
	if _, err := os.Stat(manager.Family().Variants[0].TTFPath); !os.IsNotExist(err) {
		t.Error("truncated payload should have been removed")
	}
}

func TestManager_VariantFilter(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	conv := &fakeConverter{}
	manager, _ := newTestManager(t, srv.URL, conv)

	filter := []model.VariantKey{
		{Weight: 400, Style: model.StyleNormal},
		{Weight: 700, Style: model.StyleNormal},
	}

	ctx := context.Background()
	if err := manager.Initialize(ctx, "Open Sans", filter); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := manager.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	family := manager.Family()
	if len(family.Variants) != 2 {
		t.Fatalf("len(Variants) = %d, want 2", len(family.Variants))
	}

	data, _ := os.ReadFile(family.StylesheetPath)
	if strings.Contains(string(data), "italic") {
		t.Error("filtered-out variant leaked into the stylesheet")
	}
}

func TestManager_FilterMatchingNothing(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	manager, _ := newTestManager(t, srv.URL, &fakeConverter{})

	filter := []model.VariantKey{{Weight: 900, Style: model.StyleItalic}}
	if err := manager.Initialize(context.Background(), "Open Sans", filter); err == nil {
		t.Fatal("expected error when the filter matches no variants")
	}
}

func TestManager_ProgressEvents(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	var mu sync.Mutex
	var events []ProgressEvent
	settings := config.DefaultSettings()
	settings.TargetDir = t.TempDir()
	settings.APIBaseURL = srv.URL
	manager := NewManager(settings, "test-key", &fakeConverter{}, func(e ProgressEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	ctx := context.Background()
	if err := manager.Initialize(ctx, "Open Sans", nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := manager.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	var sawResolved, sawWrote, sawTask bool
	for _, e := range events {
		if strings.HasPrefix(e.Message, "Resolved Open Sans") {
			sawResolved = true
		}
		if strings.HasPrefix(e.Message, "Wrote stylesheet") && e.Level == LevelSuccess {
			sawWrote = true
		}
		if strings.Contains(e.Message, "task convert-") && e.Level == LevelVerbose {
			sawTask = true
		}
	}
	if !sawResolved || !sawWrote {
		t.Errorf("missing expected progress events (resolved=%v wrote=%v)", sawResolved, sawWrote)
	}
	if !sawTask {
		t.Error("conversion events should carry the task ID")
	}
}
