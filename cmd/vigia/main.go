// Copyright 2025 Veridian Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/veridian-labs/vigia"
	"github.com/veridian-labs/vigia/config"
	"github.com/veridian-labs/vigia/core"
)

func main() {
	app := &cli.App{
		Name:  "vigia",
		Usage: "Asistente de sanciones SIMV: ingesta de resoluciones y consultas con recuperación semántica",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest sanction sources (CSV and PDF) into the vector store",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "pattern",
						Aliases: []string{"p"},
						Usage:   "Glob pattern of source files, e.g. 'data/*/*'",
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Interactive conversation with the assistant",
				Action: chatCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "conversation",
						Usage: "Conversation identifier (random when omitted)",
					},
					&cli.BoolFlag{
						Name:  "no-rag",
						Usage: "Start with retrieval disabled",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "One-shot question, streamed to stdout",
				ArgsUsage: "\"question\"",
				Action:    askCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newEngine(c *cli.Context, opts ...vigia.EngineOption) (*vigia.Engine, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	return vigia.NewEngine(c.Context, cfg, opts...)
}

func ingestCommand(c *cli.Context) error {
	var bar *progressbar.ProgressBar

	engine, err := newEngine(c, vigia.WithIngestProgress(func(sourceID string) {
		if bar == nil {
			bar = progressbar.Default(-1, "ingesting")
		}
		bar.Add(1)
		bar.Describe(sourceID)
	}))
	if err != nil {
		return err
	}
	defer engine.Close()

	report, err := engine.Ingest(c.Context, c.String("pattern"))
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	fmt.Printf("discovered: %d\n", report.Discovered)
	fmt.Printf("ingested:   %d\n", report.Ingested)
	fmt.Printf("chunks:     %d\n", report.Chunks)
	fmt.Printf("skipped:    %d\n", report.Skipped)
	fmt.Printf("unmatched:  %d\n", report.Unmatched)
	fmt.Printf("failed:     %d\n", report.Failed)
	return nil
}

func chatCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	conversationID := c.String("conversation")
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	useRetrieval := !c.Bool("no-rag")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bold := color.New(color.Bold)
	userColor := color.New(color.FgCyan)
	botColor := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	bold.Println("SancionesSIMV Bot")
	dim.Printf("conversación %s. '/rag on|off' cambia la recuperación, '/salir' termina\n\n", conversationID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		userColor.Print("usted> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/salir" || line == "/exit":
			return nil
		case line == "/rag on":
			useRetrieval = true
			dim.Println("recuperación activada")
			continue
		case line == "/rag off":
			useRetrieval = false
			dim.Println("recuperación desactivada")
			continue
		}

		stream, err := engine.Assistant().Query(ctx, core.QueryRequest{
			Prompt:         line,
			ConversationID: conversationID,
			UseRetrieval:   useRetrieval,
		})
		if err != nil {
			color.Red("error: %v", err)
			continue
		}

		botColor.Print("bot> ")
		for chunk := range stream.Chunks() {
			fmt.Print(chunk)
		}
		fmt.Println()
		if err := stream.Err(); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			color.Red("error: %v", err)
		}
		fmt.Println()
	}
	return scanner.Err()
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("usage: vigia ask \"question\"")
	}

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	stream, err := engine.Assistant().Query(c.Context, core.QueryRequest{
		Prompt:         question,
		ConversationID: uuid.NewString(),
		UseRetrieval:   true,
	})
	if err != nil {
		return err
	}

	for chunk := range stream.Chunks() {
		fmt.Print(chunk)
	}
	fmt.Println()
	return stream.Err()
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
