package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/wordkeeper/internal/config"
	"github.com/example/wordkeeper/internal/logger"
)

const usage = `usage: wordkeeper <command> [flags]

commands:
  serve                     run the reminder scheduler until interrupted
  add <word> -t <text>      capture a word with its translation
  import <file>             merge a .json, .csv or .xlsx file into the collection
  export <json|csv|anki|xlsx> [-o path]
  due                       list words due today
  review                    grade today's words interactively
  stats                     print collection statistics
  remind [-at HH:MM]        send a reminder now, or change the reminder time`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Init()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Контекст отменяется по сигналу
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		log.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}
