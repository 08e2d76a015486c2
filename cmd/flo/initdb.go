package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the finance database and apply the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openFinanceStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("finance database ready at %s\n", viper.GetString("finance.db"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}
