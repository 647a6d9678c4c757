package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestRouteCommand(t *testing.T) {
	app := &cli.App{
		Name: "librarian",
		Commands: []*cli.Command{
			{
				Name:   "route",
				Action: routeCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "static"},
				},
			},
		},
	}

	t.Run("routes a query", func(t *testing.T) {
		err := app.Run([]string{"librarian", "route", "kitabın", "adı", "neydi"})
		assert.NoError(t, err)
	})

	t.Run("static mode", func(t *testing.T) {
		err := app.Run([]string{"librarian", "route", "--static", "sefiller"})
		assert.NoError(t, err)
	})

	t.Run("query is required", func(t *testing.T) {
		err := app.Run([]string{"librarian", "route"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query text is required")
	})
}

func TestSetupLogger(t *testing.T) {
	newContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", 0)
		set.String("log-level", level, "")
		return cli.NewContext(nil, set, nil)
	}

	t.Run("accepts valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
			assert.NoError(t, setupLogger(newContext(level)))
		}
	})

	t.Run("rejects invalid level", func(t *testing.T) {
		err := setupLogger(newContext("loud"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestFormatKinds(t *testing.T) {
	assert.Equal(t, "[]", formatKinds(nil))
}
