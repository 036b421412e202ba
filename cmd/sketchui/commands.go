package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/sketchui/internal/config"
	"github.com/muurk/sketchui/internal/discovery"
	"github.com/muurk/sketchui/internal/editor"
	"github.com/muurk/sketchui/internal/ingest"
	"github.com/muurk/sketchui/internal/logging"
	"github.com/muurk/sketchui/internal/preview"
	"github.com/muurk/sketchui/internal/render"
	"github.com/muurk/sketchui/internal/screen"
	"github.com/muurk/sketchui/internal/theme"
	"github.com/muurk/sketchui/internal/tui"
	"github.com/muurk/sketchui/internal/ui"
	"github.com/muurk/sketchui/internal/version"
)

// shutdownTimeout bounds how long the preview server gets to drain.
const shutdownTimeout = 5 * time.Second

// Command flags
var (
	editTheme     string
	editMode      string
	editPreview   string
	editAdvertise bool
	editWatch     bool
	editDescriber string

	uploadOutput string
	uploadEdit   bool

	renderTheme string
	renderMode  string
	renderWidth int
	renderList  bool

	themesSample bool

	discoverTimeout time.Duration

	configForce bool
)

// addEditFlags registers the editor flags on cmd. The root command and
// "edit" share them.
func addEditFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&editTheme, "theme", "", "Canvas theme (default from config)")
	cmd.Flags().StringVar(&editMode, "mode", render.ModeEdit.String(), "Start in edit or preview mode")
	cmd.Flags().StringVar(&editPreview, "preview", "", "Serve the live browser preview on this address (e.g. 127.0.0.1:7070)")
	cmd.Flags().BoolVar(&editAdvertise, "advertise", false, "Announce the preview server over mDNS")
	cmd.Flags().BoolVar(&editWatch, "watch", true, "Reload the description file when it changes on disk")
	cmd.Flags().StringVar(&editDescriber, "describer", "", "Describer base URL (default from config)")
}

// editCmd implements the 'edit' command
var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open a description in the interactive editor",
	Long: `Open a UI description in the interactive terminal editor.

The file is watched and reloaded when it changes. Select elements with
tab or a mouse click, press enter to edit a field, t to switch theme and
p to toggle preview mode. Press u to describe a new sketch image.

With --preview, every change is also streamed to a browser page served
on the given address.`,
	Example: `  # Edit a description
  sketchui edit login.json

  # Edit with the dark theme and a live browser preview
  sketchui edit login.json --theme dark --preview 127.0.0.1:7070

  # Announce the preview on the local network
  sketchui edit login.json --preview :7070 --advertise`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	addEditFlags(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true

	if len(args) == 0 {
		return openEditor(cmd, "", nil, "new")
	}

	path := args[0]
	doc, err := ingest.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return openEditor(cmd, path, doc, "file "+filepath.Base(path))
}

// openEditor runs the terminal editor on doc. path, when set, is reloaded
// on request and watched.
func openEditor(cmd *cobra.Command, path string, doc *screen.Screen, source string) error {
	if !ui.IsInteractive() {
		return errors.New("the editor needs an interactive terminal; use 'sketchui render' for plain output")
	}

	themes, themeName, err := loadThemes(editTheme)
	if err != nil {
		return err
	}
	mode, err := render.ParseMode(editMode)
	if err != nil {
		return err
	}
	opts := []editor.Option{editor.WithTheme(themeName), editor.WithMode(mode)}

	prefs := registry.Preferences
	addr := prefs.PreviewAddr
	if cmd.Flags().Changed("preview") {
		addr = editPreview
	}

	var previewURL string
	if addr != "" {
		hub := preview.NewHub()
		srv, err := preview.Serve(addr, hub)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logging.Warn("Preview server shutdown failed", zap.Error(err))
			}
		}()
		opts = append(opts, editor.WithObserver(hub.Publish))
		previewURL = srv.URL()

		if editAdvertise || prefs.Advertise {
			ad, err := discovery.Advertise(instanceName(), discovery.PreviewService, srv.Port(),
				[]string{"version=" + version.Version, "path=/"})
			if err != nil {
				logging.Warn("Preview advertisement failed", zap.Error(err))
			} else {
				defer ad.Shutdown()
			}
		}
	}

	session := editor.New(themes, opts...)
	session.Ingest(source, doc)

	var watcher *ingest.Watcher
	if path != "" && editWatch {
		watcher, err = ingest.Watch(context.Background(), path, ingest.DefaultDebounce)
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = prefs.DiscoverTimeoutDuration()

	return tui.Run(tui.Options{
		Session: session,
		Client:  newDescriberClient(editDescriber),
		Scanner: scanner,
		Watcher: watcher,
		Path:    path,
		Preview: previewURL,
	})
}

// uploadCmd implements the 'upload' command
var uploadCmd = &cobra.Command{
	Use:   "upload <image>",
	Short: "Describe a sketch image",
	Long: `Send a sketch or wireframe image to the describer service and turn the
answer into a description.

This command will:
  1. Check that the describer is up
  2. Upload the image and wait for its description
  3. Assign an id to every element
  4. Save the description (when --output is given)

With --edit the result opens in the interactive editor.`,
	Example: `  # Describe an image and save the result
  sketchui upload login.png -o login.json

  # Describe and edit straight away
  sketchui upload login.png -o login.json --edit

  # Use a describer on another machine
  sketchui upload login.png --describer http://studio.local:8000`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&editDescriber, "describer", "", "Describer base URL (default from config)")
	uploadCmd.Flags().StringVarP(&uploadOutput, "output", "o", "", "Write the description to this file")
	uploadCmd.Flags().BoolVar(&uploadEdit, "edit", false, "Open the result in the editor")
	uploadCmd.Flags().StringVar(&editTheme, "theme", "", "Canvas theme for --edit (default from config)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	image := args[0]
	client := newDescriberClient(editDescriber)

	params := []ui.Detail{
		{Key: "Image", Value: image},
		{Key: "Describer", Value: client.BaseURL},
	}
	if uploadOutput != "" {
		params = append(params, ui.Detail{Key: "Output", Value: uploadOutput})
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:     "Describe Sketch",
		Command:   "sketchui upload " + filepath.Base(image),
		Params:    params,
		StepNames: []string{"Check describer", "Describe image", "Assign element ids", "Save description"},
		Hints: []string{
			"Find a describer on this network: sketchui discover",
			"Point at another describer: --describer http://host:8000",
		},
		Output: cmd.OutOrStdout(),
	})

	var doc *screen.Screen
	err := runner.Run(func(onStep ui.StepCallback) ([]ui.Detail, error) {
		described, err := describe(cmd.Context(), client, image, onStep)
		if err != nil {
			return nil, err
		}
		doc = described

		if uploadOutput == "" {
			onStep(4, "", ui.StepSkipped, "no --output")
		} else {
			onStep(4, "", ui.StepRunning, "")
			if err := writeDescription(uploadOutput, doc); err != nil {
				onStep(4, "", ui.StepFailed, "")
				return nil, err
			}
			onStep(4, "", ui.StepComplete, uploadOutput)
		}

		layout := doc.Layout
		if layout == "" {
			layout = "(default)"
		}
		return []ui.Detail{
			{Key: "Screen", Value: doc.DisplayName()},
			{Key: "Layout", Value: layout},
			{Key: "Elements", Value: fmt.Sprintf("%d", len(doc.Elements()))},
		}, nil
	})
	if err != nil {
		return err
	}

	if uploadEdit {
		return openEditor(cmd, uploadOutput, doc, "upload "+filepath.Base(image))
	}
	return nil
}

// describe runs steps 1 to 3 of an upload.
func describe(ctx context.Context, client *ingest.Client, image string, onStep ui.StepCallback) (*screen.Screen, error) {
	onStep(1, "", ui.StepRunning, "")
	if err := client.Health(ctx); err != nil {
		onStep(1, "", ui.StepFailed, ingest.ShortMessage(err))
		return nil, err
	}
	onStep(1, "", ui.StepComplete, client.BaseURL)

	onStep(2, "", ui.StepRunning, "")
	raw, err := client.DescribeFile(ctx, image)
	if err != nil {
		onStep(2, "", ui.StepFailed, ingest.ShortMessage(err))
		return nil, err
	}
	onStep(2, "", ui.StepComplete, fmt.Sprintf("%d elements", len(raw.Elements())))

	doc := screen.AssignIDs(raw)
	onStep(3, "", ui.StepComplete, "")
	return doc, nil
}

func writeDescription(path string, doc *screen.Screen) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode description: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// renderCmd implements the 'render' command
var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Print a description as a themed mock-up",
	Long: `Render a UI description once and print it.

Use "-" to read the description from standard input. The canvas is as
wide as the terminal, or canvas_width from the config file when output
is not a terminal.`,
	Example: `  # Render with the default theme
  sketchui render login.json

  # Render at a fixed width with element ids and regions
  sketchui render login.json --width 100 --list

  # Render describer output piped from another tool
  curl -s -F file=@login.png http://127.0.0.1:8000/api/upload | sketchui render -`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "Canvas theme (default from config)")
	renderCmd.Flags().StringVar(&renderMode, "mode", render.ModeEdit.String(), "Render in edit or preview mode")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Canvas width in cells (default: terminal width)")
	renderCmd.Flags().BoolVar(&renderList, "list", false, "List elements with their ids and regions")
}

func runRender(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	doc, err := readDescription(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	doc = screen.AssignIDs(doc)

	themes, themeName, err := loadThemes(renderTheme)
	if err != nil {
		return err
	}
	mode, err := render.ParseMode(renderMode)
	if err != nil {
		return err
	}

	width := renderWidth
	if width <= 0 {
		width = ui.OutputWidth(registry.Preferences.CanvasWidth)
	}

	canvas := render.Compose(doc, render.Options{
		Width: width,
		Theme: themes.MustGet(themeName),
		Mode:  mode,
	})

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, canvas.View)

	if renderList {
		var rows [][]string
		for _, el := range doc.Elements() {
			region := "-"
			if r, ok := canvas.Region(el.ID); ok {
				region = fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.W, r.H)
			}
			rows = append(rows, []string{el.ID, string(el.Kind), el.Label, region})
		}
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, ui.RenderTable([]string{"ID", "Type", "Label", "Region"}, rows))
	}
	return nil
}

// readDescription loads path, or stdin when path is "-".
func readDescription(path string, stdin io.Reader) (*screen.Screen, error) {
	if path != "-" {
		doc, err := ingest.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		return doc, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	// Describer responses carry the description under ui_description.
	if doc, err := ingest.ParseUploadResponse(data); err == nil {
		return doc, nil
	}
	return ingest.ParseDescription(data)
}

// themesCmd implements the 'themes' command
var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available canvas themes",
	Long: `List the built-in themes and any themes defined in the config file.

The current default is marked. With --sample each theme renders a small
example screen.`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

func init() {
	themesCmd.Flags().BoolVar(&themesSample, "sample", false, "Render a sample screen in each theme")
}

func runThemes(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	themes, err := registry.ThemeRegistry()
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	current := registry.Preferences.Theme

	if themesSample {
		sample := screen.AssignIDs(sampleScreen())
		for _, name := range themes.List() {
			p.PrintMuted(name)
			canvas := render.Compose(sample, render.Options{Width: p.Width(), Theme: themes.MustGet(name)})
			p.Println(canvas.View)
			p.Newline()
		}
		return nil
	}

	var rows [][]string
	for _, name := range themes.List() {
		th := themes.MustGet(name)
		marker := ""
		if name == current {
			marker = ui.SuccessMarker
		}
		rows = append(rows, []string{marker, name, th.Extends, th.Description})
	}
	p.PrintTable([]string{"", "Name", "Extends", "Description"}, rows)
	return nil
}

func sampleScreen() *screen.Screen {
	return &screen.Screen{
		Name: "Sign in",
		Sections: []screen.Section{{
			Elements: []screen.Element{
				{Kind: screen.KindNavbar, Brand: "Acme", Items: []screen.Item{{Label: "Home"}, {Label: "Sign up", Variant: screen.VariantPrimary}}},
				{Kind: screen.KindInput, Label: "Email", Placeholder: "you@example.com"},
				{Kind: screen.KindButton, Label: "Continue"},
			},
		}},
	}
}

// discoverCmd implements the 'discover' command
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find describers and previews on the local network",
	Long: `Browse the local network (mDNS) for describer services and live
preview servers and list what answers.`,
	Example: `  # Browse with the default timeout
  sketchui discover

  # Wait longer on a busy network
  sketchui discover --timeout 10s`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", discovery.DefaultScanTimeout, "How long to wait for answers")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	timeout := discoverTimeout
	if !cmd.Flags().Changed("timeout") {
		timeout = registry.Preferences.DiscoverTimeoutDuration()
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Service Discovery", "sketchui discover", []ui.Detail{
		{Key: "Services", Value: discovery.DescriberService + ", " + discovery.PreviewService},
		{Key: "Timeout", Value: timeout.String()},
	})

	found, err := discovery.BrowseAll(cmd.Context(), timeout)
	if err != nil {
		p.PrintError("Discovery failed", err, []string{
			"Check that multicast DNS is allowed on this network",
		})
		return err
	}

	kinds := map[string]string{
		discovery.DescriberService: "describer",
		discovery.PreviewService:   "preview",
	}
	var rows [][]string
	for _, serviceType := range []string{discovery.DescriberService, discovery.PreviewService} {
		for _, svc := range found[serviceType] {
			rows = append(rows, []string{kinds[serviceType], svc.Instance, svc.BaseURL(), svc.GetMetadata("version")})
		}
	}

	if len(rows) == 0 {
		p.PrintWarning("No services found", []ui.Detail{
			{Key: "Describer", Value: "start one that advertises " + discovery.DescriberService},
			{Key: "Preview", Value: "sketchui edit --preview :7070 --advertise"},
		})
		return nil
	}
	p.PrintTable([]string{"Kind", "Instance", "URL", "Version"}, rows)
	return nil
}

// configCmd groups the config file commands. They must work even when the
// file is broken, so they skip loading it.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging("", "")
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file without asking")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	err = config.CreateDefaultConfigAt(path, configForce)
	if errors.Is(err, config.ErrConfigExists) && ui.IsInteractive() {
		if !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Overwrite configuration", []string{
			"A configuration file already exists at " + path,
			"Its preferences and themes will be replaced with defaults",
		}, "yes") {
			p.PrintMuted("Cancelled, nothing written.")
			return nil
		}
		err = config.CreateDefaultConfigAt(path, true)
	}
	if err != nil {
		return err
	}

	p.PrintSuccess("Configuration written", []ui.Detail{
		{Key: "Path", Value: path},
		{Key: "Theme", Value: theme.DefaultTheme},
	})
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	reg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	data, err := reg.Marshal(path)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// loadThemes returns the theme registry and the theme to use: name, or the
// configured default when name is empty.
func loadThemes(name string) (*theme.Registry, string, error) {
	themes, err := registry.ThemeRegistry()
	if err != nil {
		return nil, "", err
	}
	if name == "" {
		name = registry.Preferences.Theme
	}
	if _, ok := themes.Get(name); !ok {
		return nil, "", fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(themes.List(), ", "))
	}
	return themes, name, nil
}

// newDescriberClient creates a describer client for url, or the configured
// describer when url is empty.
func newDescriberClient(url string) *ingest.Client {
	prefs := registry.Preferences
	if url == "" {
		url = prefs.DescriberURL
	}
	client := ingest.NewClient(url)
	client.SetTimeout(prefs.DescriberTimeoutDuration())
	return client
}

// instanceName is the mDNS instance name of this editor's preview.
func instanceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "sketchui"
	}
	return "sketchui on " + strings.TrimSuffix(host, ".local")
}
