package cmd

import (
	"fmt"

	"bggclient/cmd/bgg/globals"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(randomCmd)
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print the id of a random board game.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client

		id, err := client.RandomBoardGameID(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}
