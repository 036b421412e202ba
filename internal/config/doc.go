// Package config manages the sketchui user configuration file.
//
// The file is YAML and holds application preferences plus any user-defined
// themes. It follows OS-specific conventions for its location:
//   - Linux: $XDG_CONFIG_HOME/sketchui/config.yaml or $HOME/.config/sketchui/config.yaml
//   - macOS: $HOME/.config/sketchui/config.yaml
//   - Windows: %LOCALAPPDATA%\sketchui\config.yaml
//
// A missing file is not an error: LoadRegistry returns defaults. Missing
// preference values are filled in with defaults on load, so older files keep
// working as preferences are added.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.Preferences.Theme = "dark"
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// User themes are merged over the built-in ones with Registry.ThemeRegistry.
// A user theme may set "extends" to inherit every value it leaves empty:
//
//	themes:
//	  - name: solar
//	    extends: dark
//	    selection: "#B58900"
//
// # Thread Safety
//
// The global registry uses sync.Once for initialization. Saves are serialized
// by a mutex and written atomically through a temporary file.
package config
