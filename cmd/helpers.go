package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/logsense/internal/catalog"
	"github.com/sells-group/logsense/internal/model"
	"github.com/sells-group/logsense/internal/oracle"
	"github.com/sells-group/logsense/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "logsense.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initOracle() oracle.Client {
	return oracle.New(oracle.Config{
		APIKey:   cfg.Oracle.APIKey,
		Endpoint: cfg.Oracle.Endpoint,
		Model:    cfg.Oracle.Model,
		Timeout:  cfg.Oracle.Timeout(),
	})
}

// loadPatterns reads custom PII patterns, preferring an explicit flag path
// over the configured one.
func loadPatterns(flagPath string) ([]model.CustomPattern, error) {
	path := flagPath
	if path == "" {
		path = cfg.PII.PatternsFile
	}
	if path == "" {
		return nil, nil
	}
	return catalog.LoadCustomPatterns(path)
}

// cimInputKey builds the hashable input identity of a mapping run from the
// model name and the field samples, NUL-separated so field boundaries cannot
// collide.
func cimInputKey(cimModel string, fields []model.ExtractedField) string {
	key := cimModel
	for _, f := range fields {
		key += "\x00" + f.Name + "=" + f.Sample
	}
	return key
}

// saveAnalysis persists a result payload keyed by the input hash.
func saveAnalysis(ctx context.Context, st store.Store, kind, sample, source string, result any) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", eris.Wrap(err, "marshal analysis result")
	}
	a := &model.Analysis{
		Kind:        kind,
		InputSHA256: model.HashInput(sample),
		Source:      source,
		Result:      payload,
	}
	if err := st.SaveAnalysis(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode output")
	}
	return nil
}

// withStore opens the store, migrates, runs fn, and closes.
func withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return err
	}
	return fn(st)
}

func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
