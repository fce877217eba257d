// Command tinyvecdb-inspect is a thin development CLI over a TinyVecDB
// file: header stats, a brute-force search, and nothing else. It is
// not a supported host binding — bindings are expected to embed the
// library, not shell out to this tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinyvecdb/tinyvecdb"
)

var (
	dbPath     string
	dimensions uint32
)

var rootCmd = &cobra.Command{
	Use:   "tinyvecdb-inspect",
	Short: "Inspect and query a TinyVecDB file",
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a database file's header stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := tinyvecdb.Open(dbPath, dimensions)
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer conn.Close()

		stats, err := conn.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		fmt.Printf("vector_count=%d dimensions=%d\n", stats.VectorCount, stats.Dimensions)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <comma-separated-vector>",
	Short: "Run a top-k search against a database file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, _ := cmd.Flags().GetInt("k")
		filterStr, _ := cmd.Flags().GetString("filter")

		query, err := parseVector(args[0])
		if err != nil {
			return fmt.Errorf("parse vector: %w", err)
		}

		conn, err := tinyvecdb.Open(dbPath, dimensions)
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer conn.Close()

		var filterJSON []byte
		if filterStr != "" {
			filterJSON = []byte(filterStr)
		}

		results, err := conn.SearchWithFilter(context.Background(), query, k, filterJSON)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, err
		}
		out = append(out, float32(v))
	}
	return out, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "path", "", "path to the database file")
	rootCmd.PersistentFlags().Uint32Var(&dimensions, "dims", 0, "dimensions to use if the file is new")
	_ = rootCmd.MarkPersistentFlagRequired("path")

	searchCmd.Flags().Int("k", 10, "number of results to return")
	searchCmd.Flags().String("filter", "", "JSON metadata filter")

	rootCmd.AddCommand(statsCmd, searchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
