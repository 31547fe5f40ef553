package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"docvec"
	"docvec/doc2vec"
	"docvec/internal/loader"
)

type embedOutput struct {
	Strategy   string      `json:"strategy"`
	Documents  int         `json:"documents"`
	Dimension  int         `json:"dimension"`
	Embeddings [][]float64 `json:"embeddings"`
}

func (c *CLI) newEmbedCommand() *cobra.Command {
	var (
		inputDir   string
		configPath string
		strategy   string
		scorer     string
		normalizer string
	)

	cmd := &cobra.Command{
		Use:   "embed <output.json> [files...]",
		Short: "Compute document embeddings for a corpus",
		Args:  cobra.MinimumNArgs(1),
		Example: `  docvec embed out.json --input docs/ --strategy onehot --scorer tfidf
  docvec embed out.json a.txt b.txt --strategy wordvec --normalizer mean --config docvec.yaml
  docvec embed out.json --input docs/ --strategy dense --config docvec.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath := args[0]

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}

			var docs []string
			if inputDir != "" {
				docs, err = loader.LoadDir(inputDir)
			} else if len(args) > 1 {
				docs, err = loader.Load(args[1:])
			} else {
				return fmt.Errorf("no input documents: pass --input or file arguments")
			}
			if err != nil {
				return err
			}
			slog.Info("Corpus loaded", "documents", len(docs))

			corpusCfg, err := cfg.corpusConfig()
			if err != nil {
				return err
			}
			corpus, err := docvec.NewCorpus(docs, corpusCfg)
			if err != nil {
				return err
			}
			emb := docvec.NewEmbedder(corpus, &docvec.EmbedderConfig{Pretrained: cfg.Pretrained})

			start := time.Now()
			var vectors [][]float64
			switch strategy {
			case "onehot":
				vectors = emb.OneHot(docvec.Scorer(scorer))
			case "wordvec":
				vectors, err = emb.WordVectorSum(docvec.Normalizer(normalizer))
			case "dense":
				d2vCfg := denseConfig(cfg.Doc2Vec)
				vectors, err = emb.DenseEmbedding(&d2vCfg)
			default:
				return fmt.Errorf("unknown strategy %q (want onehot, wordvec or dense)", strategy)
			}
			if err != nil {
				return err
			}
			slog.Debug("Embeddings computed", "strategy", strategy, "duration", time.Since(start))

			dim := 0
			if len(vectors) > 0 {
				dim = len(vectors[0])
			}
			out := embedOutput{
				Strategy:   strategy,
				Documents:  len(vectors),
				Dimension:  dim,
				Embeddings: vectors,
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			slog.Info("Embeddings written", "path", outPath, "documents", len(vectors), "dimension", dim)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "Directory of .txt/.md/.html documents")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to yaml pipeline config")
	cmd.Flags().StringVar(&strategy, "strategy", "onehot", "Embedding strategy: onehot, wordvec or dense")
	cmd.Flags().StringVar(&scorer, "scorer", "tfidf", "One-hot scorer: tfidf or count")
	cmd.Flags().StringVar(&normalizer, "normalizer", "l2", "Word-vector normalizer: l2, mean or none")
	return cmd
}

func denseConfig(s Doc2VecSettings) doc2vec.Config {
	cfg := doc2vec.DefaultConfig()
	if s.VectorSize > 0 {
		cfg.VectorSize = s.VectorSize
	}
	if s.Window > 0 {
		cfg.Window = s.Window
	}
	if s.MinCount > 0 {
		cfg.MinCount = s.MinCount
	}
	if s.Epochs > 0 {
		cfg.Epochs = s.Epochs
	}
	if s.Mode == "dbow" {
		cfg.Mode = doc2vec.DistributedBagOfWords
	}
	return cfg
}
