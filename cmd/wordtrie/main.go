// Copyright 2025 The WordTrie Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the word completion server and CLI [DBG] application.

WordTrie completes words from a history that grows as text is fed to it.
History is kept in a persistent trie: every insertion produces a new version
and older versions are never modified, so readers always see a consistent
snapshot.

# Usage

Start the msgpack server with an empty history:

	wordtrie

Seed history from a text file and enable debug logs:

	wordtrie -seed notes.txt -d

Run the interactive CLI:

	wordtrie -c -limit 10

# Configuration

Runtime configuration is read from wordtrie.toml in the platform config
directory, or from the file given with -config. The file is created with
defaults when missing:

	[engine]
	backend = "trie"
	seed_file = ""

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true

	[cli]
	default_limit = 24
	default_min_len = 1
	default_max_len = 24
	default_no_filter = false

Flags override the file.

# Backends

	trie      persistent trie (default)
	array     linear scan over a slice
	patricia  mutable patricia trie

All three give identical results; the alternatives exist for comparison.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "wordtrie"
	gh      = "https://github.com/bastiangx/wordtrie"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main reads flags and config, seeds the history and hands over to the
// server or the CLI.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configFile := flag.String("config", "", "Path to a custom config file")
	backend := flag.String("backend", "", fmt.Sprintf("Completion backend %v (default from config)", suggest.Backends()))
	seedFile := flag.String("seed", "", "Text file whose words seed the history (default from config)")
	limit := flag.Int("limit", 0, "Number of suggestions to show in CLI mode (default from config)")
	minPrefix := flag.Int("prmin", 0, "Minimum prefix length in CLI mode (default from config)")
	maxPrefix := flag.Int("prmax", 0, "Maximum prefix length in CLI mode (default from config)")
	noFilter := flag.Bool("no-filter", defaults.CLI.DefaultNoFilter, "Disable input filtering (DBG only)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	defaultConfigPath, err := pathResolver.GetConfigPath(config.FileName)
	if err != nil {
		log.Warnf("No config location available: %v", err)
	}
	appConfig, configPath := config.LoadConfigWithPriority(*configFile, defaultConfigPath)
	log.Debugf("Using config: (%s)", config.GetActiveConfigPath(configPath))

	if *backend == "" {
		*backend = appConfig.Engine.Backend
	}
	completer, err := suggest.New(*backend)
	if err != nil {
		log.Fatalf("Failed to init completer: %v", err)
	}
	log.Debugf("Init completer: backend=[%s]", *backend)

	if *seedFile == "" {
		*seedFile = appConfig.Engine.SeedFile
	}
	if *seedFile != "" {
		if err := seedHistory(pathResolver, completer, *seedFile); err != nil {
			log.Fatalf("Failed to seed history: %v", err)
		}
	} else {
		log.Debug("No seed file, starting with empty history")
	}

	// CLI is mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		cliLimit := pick(*limit, appConfig.CLI.DefaultLimit)
		cliMin := pick(*minPrefix, appConfig.CLI.DefaultMinLen)
		cliMax := pick(*maxPrefix, appConfig.CLI.DefaultMaxLen)
		filterOff := *noFilter || appConfig.CLI.DefaultNoFilter
		log.Debug("Input info:",
			"minPrefix", cliMin,
			"maxPrefix", cliMax,
			"limit", cliLimit,
			"noFilter", filterOff)

		out := logger.NewWithConfig(os.Stdout, "", log.GetLevel(), false, false, log.TextFormatter)
		inputHandler := cli.NewInputHandler(completer, os.Stdin, out, cliMin, cliMax, cliLimit, filterOff)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, appConfig, configPath)
	showStartupInfo(*backend, configPath)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// seedHistory feeds the words of a text file into the completer
func seedHistory(pr *utils.PathResolver, completer suggest.Autocompleter, name string) error {
	path, err := pr.ResolveFile(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	n, err := suggest.FeedReader(completer, f)
	if err != nil {
		return err
	}
	log.Debugf("Seeded %s words from %s", utils.FormatWithCommas(n), path)
	return nil
}

// pick returns flagVal when set, else the config value
func pick(flagVal, configVal int) int {
	if flagVal > 0 {
		return flagVal
	}
	return configVal
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ WordTrie ] word completions from a persistent trie")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(backend, configPath string) {
	l := logger.New(AppName)
	l.SetLevel(log.InfoLevel)

	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("backend: ( %s )", backend)
	l.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	l.Info("status: ready")
	l.Print("Press Ctrl+C to exit")
}
