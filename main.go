package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/teamdex/catalog"
	"github.com/danielhkuo/teamdex/cliparse"
	"github.com/danielhkuo/teamdex/importer"
	"github.com/danielhkuo/teamdex/metrics"
	"github.com/danielhkuo/teamdex/middleware"
	"github.com/danielhkuo/teamdex/router"
	"github.com/danielhkuo/teamdex/store"
	"github.com/danielhkuo/teamdex/typechart"
)

func main() {
	if err := cliparse.LoadEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Subcommand defaults to serve
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(args)
	case "import":
		err = runImport(args)
	case "verify":
		err = verify(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want serve, import or verify)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		slog.Error("command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func serve(args []string) error {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	setupLogging(cfg.LogLevel)

	st, err := store.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	// Create schema (tables)
	if err := st.CreateSchema(); err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	m := metrics.New()
	cat := catalog.New(st, m)
	version, err := cat.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if version == 0 {
		slog.Warn("no dataset imported yet; run the import command")
	}

	mux := router.NewRouter(st, cat, m, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "dataset_version", version)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		return err
	}
	slog.Info("Server closed", "error", err)
	return nil
}

func runImport(args []string) error {
	cfg, err := cliparse.ParseImportFlags(args)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	setupLogging(cfg.LogLevel)

	chart, err := loadChart(cfg.TypesPath)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.CSVPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	st, err := store.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.CreateSchema(); err != nil {
		return err
	}

	im := importer.New(st, importer.Options{MatchOrder: cfg.MatchOrder, Source: cfg.CSVPath})
	report, err := im.Import(context.Background(), f, chart)
	if err != nil {
		return err
	}

	fmt.Print(report.Summary())
	return nil
}

func loadChart(path string) (*typechart.Chart, error) {
	if path == "" {
		return typechart.Default()
	}
	return typechart.LoadFile(path)
}

func verify(args []string) error {
	cfg, err := cliparse.ParseVerifyFlags(args)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	setupLogging(cfg.LogLevel)

	f, err := os.Open(cfg.CSVPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	pokemon, skipped, err := importer.ReadRecords(f)
	if err != nil {
		return err
	}

	dups := importer.FindDuplicates(pokemon)
	fmt.Printf("%s rows read, %s skipped, %s pokedex numbers shared by several rows\n",
		humanize.Comma(int64(len(pokemon))), humanize.Comma(int64(skipped)), humanize.Comma(int64(len(dups))))
	for _, d := range dups {
		fmt.Printf("  #%-4d %d rows: %v\n", d.PokedexNumber, len(d.Names), d.Names)
	}
	return nil
}
