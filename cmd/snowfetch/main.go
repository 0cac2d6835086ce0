// Command snowfetch connects to Snowflake, runs a single query and
// prints the result. Missing credentials are prompted for; the
// multi-factor step happens once, at connect time.
//
//	snowfetch -account myorg-myaccount -warehouse COMPUTE_WH \
//	    "SELECT * FROM db.schema.events LIMIT 100"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/snowfetch/snowfetch"
	"github.com/snowfetch/snowfetch/core"
	"github.com/snowfetch/snowfetch/format"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out io.Writer, args []string) error {
	flags := flag.NewFlagSet("snowfetch", flag.ExitOnError)

	var (
		account       = flags.String("account", "", "account identifier (default: $SNOWFLAKE_ACCOUNT)")
		user          = flags.String("user", "", "username (prompted when empty)")
		warehouse     = flags.String("warehouse", "", "warehouse to use")
		database      = flags.String("database", "", "default database")
		schema        = flags.String("schema", "", "default schema")
		role          = flags.String("role", "", "role to assume")
		authenticator = flags.String("authenticator", "", "authentication flow (default: snowflake)")
		outFormat     = flags.String("format", "table", "output format: table, csv or json")
		chunkSize     = flags.Int("chunk", 0, "fetch the result in chunks of this many rows")
		batchSize     = flags.Int("batch", 0, "stream the result in batches of this many rows")
		exec          = flags.Bool("exec", false, "execute a statement without retrieving rows")
		verbose       = flags.Bool("verbose", false, "debug logging")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() < 1 {
		return fmt.Errorf("usage: snowfetch [flags] <query>")
	}
	query := strings.Join(flags.Args(), " ")

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	formatter, err := newFormatter(*outFormat)
	if err != nil {
		return err
	}

	opts := []snowfetch.ConnectOption{
		snowfetch.WithLogger(logger),
	}
	if *account != "" {
		opts = append(opts, snowfetch.WithAccount(*account))
	}
	if *user != "" {
		opts = append(opts, snowfetch.WithUser(*user))
	}
	if *warehouse != "" {
		opts = append(opts, snowfetch.WithWarehouse(*warehouse))
	}
	if *database != "" {
		opts = append(opts, snowfetch.WithDatabase(*database))
	}
	if *schema != "" {
		opts = append(opts, snowfetch.WithSchema(*schema))
	}
	if *role != "" {
		opts = append(opts, snowfetch.WithRole(*role))
	}
	if *authenticator != "" {
		opts = append(opts, snowfetch.WithAuthenticator(*authenticator))
	}

	ctx := context.Background()

	if err := snowfetch.Connect(ctx, opts...); err != nil {
		return err
	}
	defer snowfetch.Disconnect()

	switch {
	case *exec:
		return runExec(ctx, out, query, formatter)
	case *batchSize > 0:
		return runBatches(ctx, out, query, *batchSize, formatter)
	default:
		return runQuery(ctx, out, query, *chunkSize, formatter)
	}
}

func newFormatter(name string) (format.Formatter, error) {
	switch name {
	case "table":
		return format.NewTable(), nil
	case "csv":
		return format.NewCSV(), nil
	case "json":
		return format.NewJSON(), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", name)
	}
}

func runQuery(ctx context.Context, out io.Writer, query string, chunkSize int, formatter format.Formatter) error {
	var opts []core.FetchOption
	if chunkSize > 0 {
		opts = append(opts, core.WithChunkSize(chunkSize))
	}

	table, err := snowfetch.Query(ctx, query, opts...)
	if err != nil {
		return err
	}

	return render(out, table, formatter)
}

func runBatches(ctx context.Context, out io.Writer, query string, batchSize int, formatter format.Formatter) error {
	batches, err := snowfetch.QueryBatches(ctx, query, batchSize)
	if err != nil {
		return err
	}
	defer batches.Close()

	for batches.HasNext() {
		batch, err := batches.Next()
		if err != nil {
			return err
		}
		if err := render(out, batch, formatter); err != nil {
			return err
		}
	}

	return nil
}

func runExec(ctx context.Context, out io.Writer, query string, formatter format.Formatter) error {
	cur, err := snowfetch.Exec(ctx, query)
	if err != nil {
		return err
	}
	defer cur.Close()

	table, err := cur.FetchTable()
	if err != nil {
		return err
	}

	return render(out, table, formatter)
}

func render(out io.Writer, table *core.Table, formatter format.Formatter) error {
	b, err := formatter.Format(table)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s\n", b)
	return err
}
