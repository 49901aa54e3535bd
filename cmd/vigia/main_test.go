package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestContext(t *testing.T, logLevel string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", logLevel, "")
	return cli.NewContext(&cli.App{Name: "vigia"}, set, nil)
}

func TestSetupLoggerAcceptsValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "INFO", "Debug"} {
		t.Run(level, func(t *testing.T) {
			require.NoError(t, setupLogger(newTestContext(t, level)))
		})
	}
}

func TestSetupLoggerRejectsUnknownLevel(t *testing.T) {
	err := setupLogger(newTestContext(t, "verbose"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestAskCommandRequiresQuestion(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	require.NoError(t, set.Parse(nil))
	ctx := cli.NewContext(&cli.App{Name: "vigia"}, set, nil)

	err := askCommand(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")
}
