// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/drivenote/internal/docsync"
	"github.com/pdiddy/drivenote/internal/secrets"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <id>",
	Short: "Upload a document to Google Docs",
	Long: `Upload converts a local document and syncs it to Google Docs. The first
upload creates the remote document inside the configured Drive folder and
records its id; later uploads rename it, clear its body and insert the
current content.

The access token comes from --access-token or .secrets/google-access-token.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().String("access-token", "", "Google OAuth access token (default: .secrets/google-access-token)")

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	tok, _ := cmd.Flags().GetString("access-token")
	tok = secretDefault(secrets.GoogleAccessToken, tok)

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Ownership is checked here; the orchestrator loads by id alone.
	if _, err := svc.store.GetForUser(ctx, args[0], currentUser()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	res, err := svc.sync.Upload(ctx, args[0], tok)
	if err != nil {
		var se *docsync.Error
		if errors.As(err, &se) && se.RemoteID != "" {
			fmt.Fprintf(out, "Remote document %s may be incomplete\n", se.RemoteID)
		}
		return err
	}

	verb := "Updated"
	if res.Created {
		verb = "Created"
	}
	fmt.Fprintf(out, "%s Google Doc %s (%d commands)\n", verb, res.RemoteID, res.Commands)
	return nil
}
