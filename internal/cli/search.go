package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tsdoc/internal/doc"
	"github.com/mvp-joe/tsdoc/internal/search"
	"github.com/mvp-joe/tsdoc/internal/storage"
)

var (
	searchKind     string
	searchDeclKind string
	searchFile     string
	searchLimit    int
	searchFormat   string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the indexed variable documentation",
	Long: `Search runs a full-text query over the project index built by 'tsdoc index'.

Queries use bleve syntax and may be scoped to the fields name, type, doc,
file_path, kind and decl_kind.

Examples:
  tsdoc search port
  tsdoc search 'type:string +doc:deprecated'
  tsdoc search --kind export --decl-kind const 'name:default*'
  tsdoc search --file 'src/api/*' timeout
`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "Filter by declaration kind: export, private or declare")
	searchCmd.Flags().StringVar(&searchDeclKind, "decl-kind", "", "Filter by keyword: var, let or const")
	searchCmd.Flags().StringVar(&searchFile, "file", "", "Wildcard over project-relative file paths")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 15, "Maximum number of results (1-100)")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", FormatText, "Output format: text, json or yaml")
}

func runSearch(cmd *cobra.Command, args []string) error {
	rootDir, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	db, err := storage.OpenReadOnly(cfg.DBPath(rootDir))
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := searchNodes(cmd.Context(), storage.NewReader(db), args[0], &search.Options{
		Limit:    searchLimit,
		Kind:     searchKind,
		DeclKind: searchDeclKind,
		FilePath: searchFile,
	})
	if err != nil {
		return err
	}
	return writeResults(cmd.OutOrStdout(), searchFormat, results)
}

// searchNodes builds an in-memory index over every stored node and queries it.
func searchNodes(ctx context.Context, reader *storage.Reader, query string, opts *search.Options) ([]*search.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	nodes, err := reader.AllNodes()
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(ctx, nodes)
	if err != nil {
		return nil, err
	}
	defer searcher.Close()

	return searcher.Search(ctx, query, opts)
}

// writeResults prints one line per hit in text mode, highlights indented below.
func writeResults(w io.Writer, format string, results []*search.Result) error {
	switch format {
	case FormatText:
		if len(results) == 0 {
			fmt.Fprintln(w, "No results")
			return nil
		}
		for _, r := range results {
			loc := r.Node.Location
			fmt.Fprintf(w, "%s:%d:%d  %s  (%.2f)\n", loc.Filename, loc.Line, loc.Col, doc.Signature(&r.Node), r.Score)
			for _, h := range r.Highlights {
				fmt.Fprintf(w, "    %s\n", h)
			}
		}
		return nil
	case FormatJSON, FormatYAML:
		return writeStructured(w, format, results)
	default:
		return fmt.Errorf("unsupported format %q (want text, json or yaml)", format)
	}
}
