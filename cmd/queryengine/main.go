// Command queryengine is the CLI front end: it takes a single QUERY
// argument, parses and runs it against the row source its FROM clause
// names, and prints the formatted result table. This wiring — argument
// handling, opening the source, and printing the Answer — sits outside
// the core query engine per spec §1; everything it calls into lives in
// the engine/ packages.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omniql-engine/queryengine/engine/answer"
	"github.com/omniql-engine/queryengine/engine/executor"
	"github.com/omniql-engine/queryengine/engine/parser"
	"github.com/omniql-engine/queryengine/engine/query"
	"github.com/omniql-engine/queryengine/engine/source"
	_ "github.com/omniql-engine/queryengine/engine/source/csvsource"
	_ "github.com/omniql-engine/queryengine/engine/source/jsonsource"
	_ "github.com/omniql-engine/queryengine/engine/source/mongosource"
	_ "github.com/omniql-engine/queryengine/engine/source/redissource"
	"github.com/omniql-engine/queryengine/internal/telemetry"
)

var (
	verbose bool
	logFile string
	timeout time.Duration
)

func main() {
	root := &cobra.Command{
		Use:           "queryengine QUERY",
		Short:         "Run a SELECT statement against a CSV, JSON, MongoDB, or Redis row source",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVar(&logFile, "log-file", "", "also write rotating JSON logs to this file")
	root.Flags().DurationVar(&timeout, "timeout", 0, "abort the query if it runs longer than this (0 disables)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := telemetry.New(verbose, logFile)
	if err != nil {
		return errors.Wrap(err, "configuring logging")
	}
	defer logger.Sync() //nolint:errcheck

	queryText := args[0]
	logger.Debug("parsing query", zap.String("text", queryText))

	q, err := parser.Parse(queryText)
	if err != nil {
		return errors.Wrap(err, "parsing query")
	}

	src, err := source.Open(q.From)
	if err != nil {
		return errors.Wrapf(err, "opening source %q", q.From)
	}

	ans, err := executeWithTimeout(q, src, logger, timeout)
	if err != nil {
		return errors.Wrap(err, "executing query")
	}

	fmt.Print(ans.String())
	return nil
}

// executeWithTimeout runs the executor to completion, or abandons it once
// timeout elapses. The core pipeline carries no cancellation token of its
// own (spec §5), so the guard lives here: the query keeps running on its
// goroutine even after we give up waiting on it, since nothing below this
// layer knows how to stop early.
func executeWithTimeout(q *query.Query, src source.Source, logger *zap.Logger, timeout time.Duration) (*answer.Answer, error) {
	if timeout <= 0 {
		return executor.Execute(q, src, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	type result struct {
		ans *answer.Answer
		err error
	}
	done := make(chan result, 1)
	go func() {
		ans, err := executor.Execute(q, src, logger)
		done <- result{ans, err}
	}()

	select {
	case r := <-done:
		return r.ans, r.err
	case <-ctx.Done():
		logger.Warn("query timed out", zap.Duration("timeout", timeout))
		return nil, ctx.Err()
	}
}
