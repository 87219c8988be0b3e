// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/drivenote/internal/secrets"
	"github.com/pdiddy/drivenote/internal/store"
	"github.com/pdiddy/drivenote/pkg/types"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage local documents (create, list, show, update, delete)",
	Long: `Doc manages the local document store. Documents belong to the user
given by --user (or the "user" config key) and are kept in a SQLite
database under the data directory.`,
}

// --- create subcommand ---

var docCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a document from --content or --file",
	RunE:  runDocCreate,
}

func runDocCreate(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	draft, _ := cmd.Flags().GetBool("draft")
	content, err := contentFromFlags(cmd)
	if err != nil {
		return err
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	doc, err := svc.store.Create(context.Background(), currentUser(), title, content, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", doc.ID)
	return nil
}

// --- list subcommand ---

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	RunE:  runDocList,
}

func runDocList(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return svc.store.ExportYAML(ctx, currentUser(), out)
	}

	docs, err := svc.store.List(ctx, currentUser())
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}
	writeDocTable(out, docs)
	return nil
}

func writeDocTable(w io.Writer, docs []types.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents.")
		return
	}

	fmt.Fprintf(w, "%-26s  %-30s  %-5s  %-16s  %s\n", "ID", "Title", "Draft", "Updated", "Drive ID")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, d := range docs {
		title := d.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		draft := ""
		if d.IsDraft {
			draft = "yes"
		}
		remoteID := d.RemoteID
		if remoteID == "" {
			remoteID = "-"
		}
		fmt.Fprintf(w, "%-26s  %-30s  %-5s  %-16s  %s\n",
			d.ID, title, draft, d.UpdatedAt.Local().Format("2006-01-02 15:04"), remoteID)
	}
	fmt.Fprintf(w, "\n%d documents\n", len(docs))
}

// --- show subcommand ---

var docShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a document as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocShow,
}

func runDocShow(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	doc, err := svc.store.GetForUser(context.Background(), args[0], currentUser())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// --- update subcommand ---

var docUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a document's title, content or draft flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocUpdate,
}

func runDocUpdate(cmd *cobra.Command, args []string) error {
	var p store.Patch
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		p.Title = &v
	}
	if cmd.Flags().Changed("content") || cmd.Flags().Changed("file") {
		v, err := contentFromFlags(cmd)
		if err != nil {
			return err
		}
		p.Content = &v
	}
	if cmd.Flags().Changed("draft") {
		v, _ := cmd.Flags().GetBool("draft")
		p.IsDraft = &v
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	doc, err := svc.store.Update(context.Background(), args[0], currentUser(), p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", doc.ID)
	return nil
}

// --- delete subcommand ---

var docDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document and, with an access token, its Drive copy",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocDelete,
}

func runDocDelete(cmd *cobra.Command, args []string) error {
	tok, _ := cmd.Flags().GetString("access-token")
	tok = secretDefault(secrets.GoogleAccessToken, tok)

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.sync.Delete(context.Background(), args[0], currentUser(), tok); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

// --- shared helpers ---

func contentFromFlags(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		content, _ := cmd.Flags().GetString("content")
		return content, nil
	}
	if path == "-" {
		data, err := readStdin(cmd)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func init() {
	for _, c := range []*cobra.Command{docCreateCmd, docUpdateCmd} {
		c.Flags().String("title", "", "document title")
		c.Flags().String("content", "", "HTML content")
		c.Flags().String("file", "", "read HTML content from a file (- for stdin)")
		c.Flags().Bool("draft", false, "mark the document as a draft")
	}

	docListCmd.Flags().Bool("json", false, "output documents as JSON")
	docListCmd.Flags().Bool("yaml", false, "export documents as YAML")

	docDeleteCmd.Flags().String("access-token", "", "Google OAuth access token (default: .secrets/google-access-token)")

	docCmd.AddCommand(docCreateCmd)
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docShowCmd)
	docCmd.AddCommand(docUpdateCmd)
	docCmd.AddCommand(docDeleteCmd)

	rootCmd.AddCommand(docCmd)
}
