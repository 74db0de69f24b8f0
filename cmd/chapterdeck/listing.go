package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/history"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/profile"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

var historyLimit int

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List the month folders of the data root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		months := source.ListMonths(settings.DataRoot)
		if len(months) == 0 {
			return fmt.Errorf("no \"YYYY MM\" folders in %s", settings.DataRoot)
		}
		for i, m := range months {
			if i == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (latest)\n", m)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), m)
		}
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the parsed-sheet cache of the month folder",
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached sheets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := monthCache()
		if err != nil {
			return err
		}
		entries, err := c.Entries()
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Name, strconv.FormatInt(e.Size, 10), e.ModTime.Format(time.DateTime)})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Entry", "Bytes", "Written"}, rows))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cache folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := monthCache()
		if err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", c.Dir())
		return nil
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage chapter leader profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := profile.Load(settings.ProfilesFile)
		if err != nil {
			return err
		}
		var rows [][]string
		for _, p := range store.List() {
			rows = append(rows, []string{p.ID, p.Leader, p.DataRoot, p.DefaultMonth, p.Template})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Leader", "Data root", "Month", "Template"}, rows))
		return nil
	},
}

var profileAdd models.Profile

var profilesAddCmd = &cobra.Command{
	Use:     "add <id> <leader name>",
	Short:   "Add or replace a profile",
	Example: `  chapterdeck profiles add ajr "Anthony Jaesson Rojas" --root "/srv/S00001"`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := profile.Load(settings.ProfilesFile)
		if err != nil {
			return err
		}
		p := profileAdd
		p.ID = args[0]
		p.Leader = strings.Join(args[1:], " ")
		if err := store.Put(p); err != nil {
			return err
		}
		if err := store.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s in %s\n", p.ID, store.Path())
		return nil
	},
}

var profilesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := profile.Load(settings.ProfilesFile)
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		return store.Save()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent generation runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if settings.HistoryDB == "" {
			return fmt.Errorf("history is disabled (history_db is empty)")
		}
		ledger, err := history.Open(settings.HistoryDB)
		if err != nil {
			return err
		}
		defer ledger.Close()

		runs, err := ledger.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			status := "ok"
			if r.Error != "" {
				status = r.Error
			} else if len(r.Skipped) > 0 {
				status = "skipped " + strings.Join(r.Skipped, ", ")
			}
			rows = append(rows, []string{
				r.Started.Local().Format(time.DateTime),
				r.Leader,
				r.Month,
				strconv.Itoa(r.Figures),
				r.Duration().Round(time.Millisecond).String(),
				filepath.Base(r.DeckPath),
				status,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Started", "Leader", "Month", "Charts", "Took", "Deck", "Status"}, rows))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheLsCmd, cacheClearCmd)

	profilesAddCmd.Flags().StringVar(&profileAdd.DataRoot, "root", "", `folder holding the "YYYY MM" month folders`)
	profilesAddCmd.Flags().StringVar(&profileAdd.Template, "with-template", "", "pptx template for this leader")
	profilesAddCmd.Flags().StringVar(&profileAdd.DefaultMonth, "default-month", "", "month folder to use instead of the latest")
	profilesCmd.AddCommand(profilesListCmd, profilesAddCmd, profilesRmCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs")
}

func monthCache() (*source.Cache, error) {
	if settings.CacheSubdir == "" {
		return nil, fmt.Errorf("the sheet cache is disabled")
	}
	return source.NewCache(filepath.Join(settings.ResolveDataDir(), settings.CacheSubdir), logger), nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}
