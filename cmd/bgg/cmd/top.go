package cmd

import (
	"context"

	"bggclient/cmd/bgg/globals"
	"bggclient/cmd/bgg/utils"
	"bggclient/lib/platforms/bgg"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var topPage int

func init() {
	topCmd.PersistentFlags().IntVar(&topPage, "page", 1, "page of the rank browser")
	topCmd.AddCommand(topGamesCmd)
	topCmd.AddCommand(topExpansionsCmd)
	rootCmd.AddCommand(topCmd)
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List the ids on a page of the rank browser.",
}

func renderIDs(cmd *cobra.Command, fetch func(*bgg.Client, context.Context, int) ([]string, error)) error {
	client := globals.Get(cmd.Context()).Client

	ids, err := fetch(client, cmd.Context(), topPage)
	if err != nil {
		return err
	}

	t := utils.NewTable()
	t.AppendHeader(table.Row{"#", "ID"})
	for i, id := range ids {
		t.AppendRow(table.Row{i + 1, id})
	}
	t.Render()
	return nil
}

var topGamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List board game ids.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderIDs(cmd, (*bgg.Client).TopGames)
	},
}

var topExpansionsCmd = &cobra.Command{
	Use:   "expansions",
	Short: "List expansion ids.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderIDs(cmd, (*bgg.Client).TopExpansions)
	},
}
