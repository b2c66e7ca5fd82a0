package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/authenticating"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <senha>",
	Short: "Gera o hash bcrypt para AUTH_ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		hashed, err := authenticating.HashPassword(argv[0])
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), hashed)
		return err
	},
}
