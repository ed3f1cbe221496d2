package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alkime/avatarcast/internal/gateway"
	"github.com/alkime/avatarcast/internal/tui"
	"github.com/alkime/avatarcast/pkg/collections"
	tea "github.com/charmbracelet/bubbletea"
)

// CLI defines the avatarcast command structure.
type CLI struct {
	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Launch terminal UI for the video generation workflow"`

	// Subcommands
	Health    HealthCmd    `cmd:"" help:"Check service health"`
	Voices    VoicesCmd    `cmd:"" help:"List voices for a language/gender filter"`
	Avatars   AvatarsCmd   `cmd:"" help:"List avatars for a language/gender filter"`
	Languages LanguagesCmd `cmd:"" help:"List supported languages"`
}

// serviceFlags are shared by every command that talks to the service.
type serviceFlags struct {
	ServiceURL string `flag:"" env:"AVATARCAST_URL" default:"http://localhost:8080" help:"Base URL of the avatar video service"`
}

// filterFlags select a catalog slice.
type filterFlags struct {
	Language string `flag:"" default:"zh-CN" help:"Catalog language (zh-CN, zh-HK, en-US)"`
	Gender   string `flag:"" default:"female" help:"Catalog gender (female or male)"`
}

func (f filterFlags) filter() gateway.CatalogFilter {
	return gateway.CatalogFilter{Language: f.Language, Gender: f.Gender}
}

// TUICmd is the default command that runs the TUI.
type TUICmd struct {
	serviceFlags
}

// Run executes the TUI command.
func (c *TUICmd) Run() error {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := tui.Config{
		Cancel:    cancel,
		Gateway:   gateway.NewClient(c.ServiceURL),
		Languages: defaultLanguages(),
	}

	p := tea.NewProgram(tui.New(config))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	return nil
}

// HealthCmd checks service health from the command line.
type HealthCmd struct {
	serviceFlags
}

// Run executes the health command.
func (c *HealthCmd) Run() error {
	client := gateway.NewClient(c.ServiceURL)

	report, err := client.CheckHealth(context.Background())
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Printf("status: %s\n", report.Status)
	for name, status := range report.Services {
		fmt.Printf("  %s: %s\n", name, status)
	}

	if failed := report.FailedServices(); len(failed) > 0 {
		fmt.Printf("\nfailed services: %s\n", strings.Join(failed, ", "))
	}

	return nil
}

// VoicesCmd lists voices for a filter.
type VoicesCmd struct {
	serviceFlags
	filterFlags
}

// Run executes the voices command.
func (c *VoicesCmd) Run() error {
	client := gateway.NewClient(c.ServiceURL)

	voices, err := client.Voices(context.Background(), c.filter())
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}

	if len(voices) == 0 {
		fmt.Println("no voices available for this filter")
		return nil
	}

	for _, line := range collections.Apply(voices, func(v gateway.Voice) string {
		return fmt.Sprintf("%s\t%s", v.ID, v.Name)
	}) {
		fmt.Println(line)
	}

	return nil
}

// AvatarsCmd lists avatars for a filter.
type AvatarsCmd struct {
	serviceFlags
	filterFlags
}

// Run executes the avatars command.
func (c *AvatarsCmd) Run() error {
	client := gateway.NewClient(c.ServiceURL)

	avatars, err := client.Avatars(context.Background(), c.filter())
	if err != nil {
		return fmt.Errorf("failed to list avatars: %w", err)
	}

	if len(avatars) == 0 {
		fmt.Println("no avatars available for this filter")
		return nil
	}

	for _, line := range collections.Apply(avatars, func(a gateway.Avatar) string {
		return fmt.Sprintf("%s\t%s\t%s", a.ID, a.Name, a.PreviewURL)
	}) {
		fmt.Println(line)
	}

	return nil
}

// LanguagesCmd lists the languages the service supports.
type LanguagesCmd struct {
	serviceFlags
}

// Run executes the languages command.
func (c *LanguagesCmd) Run() error {
	client := gateway.NewClient(c.ServiceURL)

	languages, err := client.Languages(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}

	for _, lang := range languages {
		fmt.Printf("%s\t%s\n", lang.Code, lang.Name)
	}

	return nil
}

// defaultLanguages are the filter options offered in the TUI. They match
// the service's /api/languages catalog; kept local so the settings stage
// never blocks on an extra request at startup.
func defaultLanguages() []gateway.Language {
	return []gateway.Language{
		{Code: "zh-CN", Name: "Mandarin"},
		{Code: "zh-HK", Name: "Cantonese"},
		{Code: "en-US", Name: "English (US)"},
	}
}

func main() {
	// Set up text-based logger for CLI output
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
