// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/drivenote/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token <user>",
	Short: "Mint an API bearer token for a user (development)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expiry, _ := cmd.Flags().GetDuration("expiry")
		secret, err := jwtSecret(viper.GetString("server.jwt_secret"))
		if err != nil {
			return err
		}
		tok, err := auth.GenerateToken(secret, args[0], expiry)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("expiry", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(tokenCmd)
}
