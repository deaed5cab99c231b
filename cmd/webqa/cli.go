package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	DB         *sqlite.DB
	Answers    webqa.AnswerCache
	Maintainer webqa.CacheMaintainer
	Asker      webqa.Asker

	// Export creates an exporter writing to dir.
	Export func(dir string) AnswerExporter
}

// AnswerExporter writes answers to files and publishes them on Commit.
type AnswerExporter interface {
	Save(answer *webqa.Answer) error
	Commit() error
	Abort() error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"WEBQA_DB" help:"Path to the cache database"`
	Config  string `name:"config" env:"WEBQA_CONFIG" help:"Path to the YAML config file"`
	Verbose bool   `short:"v" help:"Log pipeline stages and timings to stderr"`

	Ask     AskCmd     `cmd:"" help:"Answer a question from the web"`
	History HistoryCmd `cmd:"" help:"List cached answers"`
	Forget  ForgetCmd  `cmd:"" help:"Remove a cached answer"`
	Evict   EvictCmd   `cmd:"" help:"Remove expired cache entries"`
	Stats   StatsCmd   `cmd:"" help:"Show cache entry counts"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question  string `arg:"" help:"Question to answer"`
	Refresh   bool   `short:"r" help:"Ignore the cached answer and search again"`
	Browser   bool   `short:"b" help:"Fetch pages with a headless browser"`
	Provider  string `enum:"auto,brave,duckduckgo" default:"auto" help:"Search provider (auto, brave, duckduckgo)"`
	BraveKey  string `name:"brave-key" env:"BRAVE_SEARCH_API_KEY" help:"Brave Search API key"`
	GeminiKey string `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit  int    `short:"n" default:"20" help:"Maximum number of answers to list"`
	All    bool   `short:"a" help:"Include expired answers"`
	Export string `short:"e" placeholder:"DIR" help:"Write answers as markdown files to DIR"`
}

// ForgetCmd is the "forget" subcommand.
type ForgetCmd struct {
	Question string `arg:"" help:"Question whose answer to remove"`
}

// EvictCmd is the "evict" subcommand.
type EvictCmd struct{}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
