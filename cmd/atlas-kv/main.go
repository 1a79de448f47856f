// 管理命令：查看、导入与清空持久化的日志记录
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"global-atlas/internal/blob"
	"global-atlas/internal/config"
	"global-atlas/internal/logger"
	"global-atlas/internal/passport"
)

var storeKey string

var rootCmd = &cobra.Command{
	Use:           "atlas-kv",
	Short:         "Inspect and maintain the persisted journal entries",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the raw entries blob",
	RunE:  runDump,
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the entries blob with a JSON array of records",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entries blob",
	RunE:  runClear,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-country mastery",
	RunE:  runStats,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeKey, "key", "", "storage key (default STORE_KEY)")
	rootCmd.AddCommand(dumpCmd, importCmd, clearCmd, statsCmd)
}

func main() {
	logger.SetupWriter(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (blob.Store, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	key := cfg.StoreKey
	if storeKey != "" {
		key = storeKey
	}
	st, err := blob.Open(ctx, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("open store: %w", err)
	}
	return st, key, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	st, key, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	raw, err := st.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		raw = "[]"
	} else if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), raw)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	recs, err := passport.Decode(string(b))
	if err != nil {
		return err
	}
	out, err := passport.Encode(recs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	st, key, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Set(ctx, key, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries into %s\n", len(recs), key)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	st, key, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Delete(ctx, key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", key)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	st, key, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	raw, err := st.Get(ctx, key)
	if err != nil && !errors.Is(err, blob.ErrNotFound) {
		return err
	}
	recs, err := passport.Decode(raw)
	if err != nil {
		return err
	}
	aggs := passport.Aggregate(recs)
	names := make([]string, 0, len(aggs))
	for n := range aggs {
		names = append(names, n)
	}
	sort.Strings(names)
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%d entries, %d / %d countries\n", len(recs), len(aggs), passport.TotalCountries)
	for _, n := range names {
		a := aggs[n]
		fmt.Fprintf(w, "  %-32s %-9s %d\n", n, a.Tier(), a.Count())
	}
	return nil
}
