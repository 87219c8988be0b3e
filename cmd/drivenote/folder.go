// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/drivenote/internal/secrets"
)

var folderCmd = &cobra.Command{
	Use:   "folder [name]",
	Short: "Find or create the Drive folder uploads go into",
	Long: `Folder looks up a Drive folder by exact name and creates it when none
exists, printing its id. Without a name it uses the configured folder.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFolder,
}

func init() {
	folderCmd.Flags().String("access-token", "", "Google OAuth access token (default: .secrets/google-access-token)")

	rootCmd.AddCommand(folderCmd)
}

func runFolder(cmd *cobra.Command, args []string) error {
	tok, _ := cmd.Flags().GetString("access-token")
	tok = secretDefault(secrets.GoogleAccessToken, tok)
	if tok == "" {
		return fmt.Errorf("access token required: pass --access-token or write %s/%s", secrets.DefaultDir, secrets.GoogleAccessToken)
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	name := svc.cfg.Remote.FolderName
	if len(args) == 1 {
		name = args[0]
	}

	id, err := svc.folders.GetOrCreate(context.Background(), name, tok)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}
