// Package config manages gfontapi settings.
//
// Settings are stored as JSON and cover download concurrency and retry
// behavior, conversion policy, stylesheet naming, and the metadata API
// endpoint:
//
//	settings, err := config.Load("~/.gfontapi/settings.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	settings.TargetDir = "./out"
//	settings.Save("~/.gfontapi/settings.json")
//
// Load returns defaults when the file does not exist, so first runs work
// without any setup. CLI flags are applied on top of loaded settings by
// the cmd packages.
//
// The API key is deliberately not part of Settings: it is supplied per
// invocation via flag or the GFONT_API_KEY environment variable and never
// written to disk.
package config
