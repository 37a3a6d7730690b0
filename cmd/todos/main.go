// Copyright 2025 Poiesic Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/todos/config"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "todos",
		Usage: "Manage todo lists stored in PostgreSQL or in a session",
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
				Usage:   "Path to a YAML configuration file (default ./todos.yaml)",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Storage backend (postgres, session)",
			},
			&cli.StringFlag{
				Name:  "database-url",
				Usage: "PostgreSQL connection string",
			},
			&cli.StringFlag{
				Name:  "session-dir",
				Usage: "Directory holding session state",
			},
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Session id used by the session backend",
				EnvVars: []string{"TODOS_SESSION"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "init-db",
				Usage:  "Create the lists and todos tables",
				Action: initDBCommand,
			},
			{
				Name:   "new-session",
				Usage:  "Start a new session and print its id",
				Action: newSessionCommand,
			},
			{
				Name:   "end-session",
				Usage:  "Discard the current session and its lists",
				Action: endSessionCommand,
			},
			{
				Name:   "lists",
				Usage:  "Show every list with its remaining todos",
				Action: listsCommand,
			},
			{
				Name:      "show",
				Usage:     "Show a list and its todos",
				ArgsUsage: "<list>",
				Action:    showCommand,
			},
			{
				Name:      "new-list",
				Usage:     "Create a list",
				ArgsUsage: "<name>",
				Action:    newListCommand,
			},
			{
				Name:      "rename-list",
				Usage:     "Rename a list",
				ArgsUsage: "<list> <name>",
				Action:    renameListCommand,
			},
			{
				Name:      "delete-list",
				Usage:     "Delete a list and all of its todos",
				ArgsUsage: "<list>",
				Action:    deleteListCommand,
			},
			{
				Name:      "add-todo",
				Usage:     "Add a todo to a list",
				ArgsUsage: "<list> <name>",
				Action:    addTodoCommand,
			},
			{
				Name:      "delete-todo",
				Usage:     "Delete a todo",
				ArgsUsage: "<list> <todo>",
				Action:    deleteTodoCommand,
			},
			{
				Name:      "check",
				Usage:     "Mark a todo as completed",
				ArgsUsage: "<list> <todo>",
				Action:    statusCommand(true),
			},
			{
				Name:      "uncheck",
				Usage:     "Mark a todo as not completed",
				ArgsUsage: "<list> <todo>",
				Action:    statusCommand(false),
			},
			{
				Name:      "complete-all",
				Usage:     "Mark every todo of a list as completed",
				ArgsUsage: "<list>",
				Action:    completeAllCommand,
			},
			{
				Name:      "import",
				Usage:     "Import lists from a YAML snapshot",
				ArgsUsage: "<file>",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of lists imported concurrently (default from configuration)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts to open a repository",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 100 * time.Millisecond,
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report progress on stderr",
					},
				},
			},
			{
				Name:      "export",
				Usage:     "Export every list to a YAML snapshot (- for stdout)",
				ArgsUsage: "<file>",
				Action:    exportCommand,
			},
		},
	}
}

// setup loads the configuration, applies flag overrides and installs the
// default logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("database-url") {
		cfg.DatabaseURL = c.String("database-url")
	}
	if c.IsSet("session-dir") {
		cfg.SessionDir = c.String("session-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if err := setupLogger(cfg.LogLevel); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func setupLogger(levelStr string) error {
	levelStr = strings.ToLower(levelStr)

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
