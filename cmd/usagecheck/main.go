// Command usagecheck is the operator tool for the usage catalog. It checks a
// VigiEau usage dump against the category matchers, prints the catalog, and
// lists the unclassified usages recorded by the service.
//
// Usage:
//
//	go run ./cmd/usagecheck check data/mock/full_usage_list.json
//	go run ./cmd/usagecheck list
//	go run ./cmd/usagecheck reported --db snapshots.db
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/water-restriction-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/water-restriction-etl/internal/domain"
	"github.com/spf13/cobra"
)

// errUnclassified makes check exit non-zero once its report is printed.
var errUnclassified = errors.New("unclassified usages found")

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "usagecheck",
		Short:         "Inspect the water restriction usage catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(checkCmd(), listCmd(), reportedCmd())
	return cmd
}

func checkCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "check <usage-list.json>",
		Short: "Report usages of a usage dump that no category matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readUsageList(args[0])
			if err != nil {
				return err
			}
			return check(cmd.OutOrStdout(), records, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the categories each usage matched")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the category catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listCatalog(cmd.OutOrStdout())
		},
	}
}

func reportedCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "reported",
		Short: "List unclassified usages recorded by the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listReported(cmd.Context(), cmd.OutOrStdout(), dbPath)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "snapshots.db", "Snapshot database path")
	return cmd
}

// usageList is the layout of the VigiEau usage dump.
type usageList struct {
	Restrictions []struct {
		Usage string `json:"usage"`
		Theme string `json:"thematique"`
	} `json:"restrictions"`
}

func readUsageList(path string) ([]domain.RestrictionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read usage list: %w", err)
	}
	var list usageList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse usage list %s: %w", path, err)
	}
	records := make([]domain.RestrictionRecord, 0, len(list.Restrictions))
	for _, r := range list.Restrictions {
		records = append(records, domain.RestrictionRecord{UsageName: r.Usage, Theme: r.Theme})
	}
	return records, nil
}

func check(w io.Writer, records []domain.RestrictionRecord, verbose bool) error {
	result := domain.Classify(records)

	if verbose {
		for _, def := range domain.Catalog {
			for _, rec := range result.Matches[def.Key] {
				fmt.Fprintf(w, "%-12s %s | %s\n", def.Key, rec.UsageName, rec.Theme)
			}
		}
	}

	fmt.Fprintf(w, "%d usages checked, %d unclassified\n", len(records), len(result.Unclassified))
	if len(result.Unclassified) == 0 {
		return nil
	}
	for _, rec := range result.Unclassified {
		fmt.Fprintf(w, "  unclassified: %s | %s\n", rec.UsageName, rec.Theme)
	}
	return errUnclassified
}

func listCatalog(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tICON\tMATCHERS")
	for _, def := range domain.Catalog {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.Key, def.Name, def.Icon, strings.Join(def.Matchers, " ; "))
	}
	return tw.Flush()
}

func listReported(ctx context.Context, w io.Writer, dbPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("open snapshot database: %w", err)
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	usages, err := store.ReportedUsages(ctx)
	if err != nil {
		return err
	}
	if len(usages) == 0 {
		fmt.Fprintln(w, "no unclassified usages recorded")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSEE\tUSAGE\tTHEME\tZONE\tSEEN\tLAST SEEN")
	for _, u := range usages {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			u.CityCode, u.UsageName, u.Theme, u.ZoneID, u.SeenCount, u.LastSeen.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
