package main

import (
	"fmt"

	"github.com/alecthomas/kong"
)

// CLI represents the atf command-line interface.
var CLI struct {
	Debug      bool          `help:"Enable debug mode." short:"d" env:"ATF_DEBUG"`
	Version    VersionCmd    `cmd:"" help:"Print version information."`
	Help       HelpCmd       `cmd:"" hidden:"" default:"1"`
	List       ListCmd       `cmd:"" help:"List available search techniques and abort conditions."`
	Tune       TuneCmd       `cmd:"" help:"Run a single tuning session."`
	Batch      BatchCmd      `cmd:"" help:"Run several tuning sessions concurrently."`
	Completion CompletionCmd `cmd:"" help:"Generate shell completion scripts."`
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	printVersion()
	return nil
}

// HelpCmd prints help.
type HelpCmd struct{}

func (h *HelpCmd) Run(ctx *kong.Context) error {
	appCtx := *ctx
	if len(appCtx.Path) > 1 {
		appCtx.Path = appCtx.Path[:1]
	}
	return appCtx.PrintUsage(false)
}

// ListCmd lists available capabilities.
type ListCmd struct{}

func (l *ListCmd) Run() error {
	listCapabilities()
	return nil
}

// CompletionCmd generates shell completion scripts.
type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)."`
}

func (c *CompletionCmd) Run() error {
	switch c.Shell {
	case "bash":
		fmt.Println("# Bash completion for atf")
		fmt.Println("# Add to ~/.bashrc:")
		fmt.Println("# eval \"$(atf completion bash)\"")
	case "zsh":
		fmt.Println("# Zsh completion for atf")
		fmt.Println("# Add to ~/.zshrc:")
		fmt.Println("# eval \"$(atf completion zsh)\"")
	case "fish":
		fmt.Println("# Fish completion for atf")
		fmt.Println("# Run: atf completion fish | source")
	}
	return nil
}
