package cli

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"docvec"
	"docvec/internal/loader"
)

func (c *CLI) newInspectCommand() *cobra.Command {
	var (
		inputDir   string
		configPath string
		topN       int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print corpus statistics: token counts, vocabulary size, top terms",
		Example: `  docvec inspect --input docs/
  docvec inspect --input docs/ --top 20 --config docvec.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if inputDir == "" {
				return fmt.Errorf("no input documents: pass --input")
			}
			docs, err := loader.LoadDir(inputDir)
			if err != nil {
				return err
			}

			corpusCfg, err := cfg.corpusConfig()
			if err != nil {
				return err
			}
			corpus, err := docvec.NewCorpus(docs, corpusCfg)
			if err != nil {
				return err
			}
			dict := corpus.Dictionary()

			totalTokens := lo.SumBy(corpus.Tokens(), func(doc []string) int { return len(doc) })
			fmt.Printf("documents:   %d\n", corpus.Len())
			fmt.Printf("tokens:      %d\n", totalTokens)
			fmt.Printf("vocabulary:  %d\n", dict.Len())

			ids := lo.Range(dict.Len())
			sort.Slice(ids, func(i, j int) bool { return dict.DocFreq(ids[i]) > dict.DocFreq(ids[j]) })
			if topN > len(ids) {
				topN = len(ids)
			}
			fmt.Printf("top %d terms by document frequency:\n", topN)
			for _, id := range ids[:topN] {
				fmt.Printf("  %-20s %d\n", dict.Token(id), dict.DocFreq(id))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "Directory of .txt/.md/.html documents")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to yaml pipeline config")
	cmd.Flags().IntVar(&topN, "top", 10, "Number of top terms to print")
	return cmd
}
