package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gfontapi/gfontapi/internal/config"
	"github.com/gfontapi/gfontapi/internal/convert"
	"github.com/gfontapi/gfontapi/internal/download"
	"github.com/gfontapi/gfontapi/internal/gfonts"
	"github.com/gfontapi/gfontapi/internal/model"
)

func main() {
	// Command line flags
	var (
		targetFlag      = flag.String("target", "", "Target directory for fonts (default \"fonts\")")
		apiKeyFlag      = flag.String("api-key", "", "Google Webfonts API key (overrides GFONT_API_KEY)")
		configFlag      = flag.String("config", "", "Path to config file")
		variantsFlag    = flag.String("variants", "", "Comma-separated variants to fetch (e.g. regular,italic,700)")
		skipConvertFlag = flag.Bool("skip-convert", false, "Keep TrueType files, skip WOFF2 conversion")
		keepTTFFlag     = flag.Bool("keep-ttf", false, "Keep TrueType sources after conversion")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag      = flag.Bool("dry-run", false, "Resolve the family without downloading")
	)

	flag.Parse()

	// CLI mode - require a family name
	if flag.NArg() == 0 {
		fmt.Println("gfontapi - fetch Google Fonts as self-hosted WOFF2")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  gfontapi [options] <family name>")
		fmt.Println("  gfontapi -target assets/fonts open sans")
		fmt.Println()
		fmt.Println("The API key comes from -api-key or the GFONT_API_KEY environment variable.")
		fmt.Println("For interactive mode, use: gfontapi-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Words after the flags form the family name.
	familyName := strings.Join(flag.Args(), " ")

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *targetFlag != "" {
		settings.TargetDir = *targetFlag
	}
	if *skipConvertFlag {
		settings.SkipConversion = true
	}
	if *keepTTFFlag {
		settings.KeepSourceFonts = true
	}

	apiKey := *apiKeyFlag
	if apiKey == "" {
		apiKey = os.Getenv("GFONT_API_KEY")
	}

	filter, err := parseVariantFilter(*variantsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	converter := convert.NewWOFF2Compress(
		settings.ConverterPath,
		time.Duration(settings.ConvertTimeoutSeconds)*time.Second,
		settings.KeepSourceFonts,
	)

	// Create manager with progress callback
	manager := download.NewManager(settings, apiKey, converter, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "  "
		switch event.Level {
		case download.LevelError:
			prefix = "✗ "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "✓ "
		case download.LevelInfo:
			prefix = "› "
		}

		fmt.Println(prefix + event.Message)
	})

	if err := manager.Initialize(ctx, familyName, filter); err != nil {
		printInitError(err)
		os.Exit(1)
	}

	if *dryRunFlag {
		family := manager.Family()
		fmt.Println("\n[Dry run - not downloading]")
		for _, v := range family.Variants {
			fmt.Printf("  %s (weight %d, %s)\n", v.Name(), v.Weight, v.Style)
		}
		return
	}

	if err := manager.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nCancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	received, _, done, total := manager.GetProgress()
	fmt.Println()
	fmt.Printf("Complete! %d/%d variants (%.2f MB) in %s\n",
		done, total, float64(received)/1024/1024, manager.Family().Dir)
}

// parseVariantFilter parses the -variants flag into (weight, style) keys.
func parseVariantFilter(s string) ([]model.VariantKey, error) {
	if s == "" {
		return nil, nil
	}
	var keys []model.VariantKey
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, err := model.ParseVariantKey(part)
		if err != nil {
			return nil, fmt.Errorf("invalid -variants entry %q", part)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// printInitError gives actionable messages for the common failure modes.
func printInitError(err error) {
	var authErr *gfonts.AuthError
	var notFoundErr *gfonts.NotFoundError
	var toolErr *convert.ToolMissingError

	switch {
	case errors.As(err, &authErr):
		fmt.Fprintf(os.Stderr, "Error: %v\n", authErr)
		fmt.Fprintln(os.Stderr, "Provide a key via -api-key or the GFONT_API_KEY environment variable.")
	case errors.As(err, &notFoundErr):
		fmt.Fprintf(os.Stderr, "Error: %v\n", notFoundErr)
		fmt.Fprintln(os.Stderr, "Check the spelling against https://fonts.google.com.")
	case errors.As(err, &toolErr):
		fmt.Fprintf(os.Stderr, "Error: %v\n", toolErr)
		fmt.Fprintln(os.Stderr, "Install woff2_compress (https://github.com/google/woff2) or pass -skip-convert.")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
