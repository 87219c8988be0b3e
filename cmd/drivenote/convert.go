// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
	"golang.org/x/term"

	"github.com/pdiddy/drivenote/internal/convert"
	"github.com/pdiddy/drivenote/internal/markup"
	"github.com/pdiddy/drivenote/internal/remote"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Print the Docs commands an HTML document converts to",
	Long: `Convert parses HTML from a file (or stdin) and prints the ordered
insert and style commands an upload would send. Indices assume an empty
document body starting at index 1.

--json and --yaml print the batchUpdate request bodies; --preview replays
the commands and prints the resulting document text, with U+FFFC marking
images.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("json", false, "print batchUpdate requests as JSON")
	convertCmd.Flags().Bool("yaml", false, "print batchUpdate requests as YAML")
	convertCmd.Flags().Bool("preview", false, "print the document text the commands produce")
	convertCmd.Flags().Bool("sanitize", false, "drop scripts, styles and unsafe image URLs before converting")

	viper.BindPFlag("markup.sanitize", convertCmd.Flags().Lookup("sanitize"))

	rootCmd.AddCommand(convertCmd)
}

type outputFormat int

const (
	formatText outputFormat = iota
	formatJSON
	formatYAML
	formatPreview
)

func runConvert(cmd *cobra.Command, args []string) error {
	var (
		src []byte
		err error
	)
	if len(args) == 1 {
		src, err = os.ReadFile(args[0])
	} else {
		src, err = readStdin(cmd)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	format := formatText
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	preview, _ := cmd.Flags().GetBool("preview")
	switch {
	case asJSON && asYAML, asJSON && preview, asYAML && preview:
		return fmt.Errorf("--json, --yaml and --preview are mutually exclusive")
	case asJSON:
		format = formatJSON
	case asYAML:
		format = formatYAML
	case preview:
		format = formatPreview
	}

	return writeConversion(cmd.OutOrStdout(), string(src), format, appConfig().Markup.Sanitize)
}

// readStdin reads piped input. An interactive terminal is refused rather
// than waited on.
func readStdin(cmd *cobra.Command) ([]byte, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("no input: pass a file or pipe HTML on stdin")
	}
	return io.ReadAll(in)
}

// writeConversion converts src and writes it to w in the given format.
func writeConversion(w io.Writer, src string, format outputFormat, sanitize bool) error {
	root, err := markup.NewParser(sanitize).Parse(src)
	if err != nil {
		return err
	}
	cmds, cursor := convert.EmitWithCursor(root)

	switch format {
	case formatJSON, formatYAML:
		reqs, err := remote.EncodeRequests(cmds)
		if err != nil {
			return err
		}
		body := map[string]any{"requests": reqs}
		if format == formatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(body)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(body); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()

	case formatPreview:
		text, err := convert.Replay(cmds)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err

	default:
		for i, c := range cmds {
			fmt.Fprintf(w, "%4d  %s\n", i+1, c)
		}
		fmt.Fprintf(w, "\n%d commands, end index %d\n", len(cmds), cursor)
		return nil
	}
}
