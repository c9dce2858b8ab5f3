package cmd

import (
	"bggclient/cmd/bgg/globals"
	"bggclient/cmd/bgg/utils"
	"bggclient/lib/platforms/bgg"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	collectionExpansions bool
	collectionOwned      bool
)

func init() {
	collectionCmd.Flags().BoolVar(&collectionExpansions, "expansions", false, "list expansions instead of board games")
	collectionCmd.Flags().BoolVar(&collectionOwned, "owned", false, "only list owned items")
	rootCmd.AddCommand(collectionCmd)
}

var collectionCmd = &cobra.Command{
	Use:   "collection <username>",
	Short: "List a user's collection, waiting for bgg to prepare it if needed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client

		kind := bgg.CollectionBoardGames
		if collectionExpansions {
			kind = bgg.CollectionExpansions
		}
		collection, err := client.Collection(cmd.Context(), args[0], kind)
		if err != nil {
			return err
		}

		items := collection.Items
		if collectionOwned {
			items = collection.Owned()
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"ID", "Owned", "Statuses", "Last modified"})
		for _, item := range items {
			modified := ""
			if !item.LastModified.IsZero() {
				modified = item.LastModified.Format("2006-01-02 15:04")
			}
			t.AppendRow(table.Row{item.ID, item.IsOwned(), utils.FormatStatuses(item.Statuses), modified})
		}
		t.AppendFooter(table.Row{"", "", "Total", len(items)})
		t.Render()
		return nil
	},
}
