package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/tictactoe-link/internal"
	"github.com/rocketscienceinc/tictactoe-link/internal/config"
)

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "", "path to config.yml (defaults to ./config.yml)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config path] [game link]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	conf := initConfig(*configPath)
	logger := initLogger(conf)

	if err := app.RunApp(logger, conf, flag.Arg(0), app.Terminal{In: os.Stdin, Out: os.Stdout}); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config.
func initConfig(path string) *config.Config {
	if path != "" {
		return config.MustLoad(path)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoad(filepath.Join(baseDir, "./config.yml"))
}

// initialize logger. Logs go to stderr, stdout belongs to the board.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
