package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/thep200/gitgrade/internal/model"
)

func newMigrateCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the analyses table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(rf)
			if err != nil {
				return err
			}
			defer a.close()
			if a.conn == nil {
				return errors.New("no database configured, set database.driver")
			}

			if err := a.conn.Migrate(&model.Analysis{}); err != nil {
				return err
			}
			a.logger.Info(context.Background(), "Migrated table %s on %s", (&model.Analysis{}).TableName(), a.config.Database.Driver)
			return nil
		},
	}
}
