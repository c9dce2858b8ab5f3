package cmd

import (
	"bggclient/cmd/bgg/globals"
	"bggclient/cmd/bgg/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(boardGameCmd)
	rootCmd.AddCommand(thingCmd)
}

var boardGameCmd = &cobra.Command{
	Use:   "boardgame <id>",
	Short: "Show a board game from the v1 xml api.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client

		game, err := client.BoardGame(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		utils.RenderRecord(game.Record)
		return nil
	},
}

var thingCmd = &cobra.Command{
	Use:   "thing <id>",
	Short: "Show an entity and its statistics from the v2 thing endpoint.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client

		thing, err := client.Thing(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		utils.RenderRecord(thing.Record, table.Row{"Type", thing.Type})
		return nil
	},
}
