package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"docvec"
	"docvec/tokenize"
)

// Doc2VecSettings configures the dense embedding trainer.
type Doc2VecSettings struct {
	VectorSize int    `yaml:"vector_size"`
	Window     int    `yaml:"window"`
	MinCount   int    `yaml:"min_count"`
	Mode       string `yaml:"mode"` // "dm" or "dbow"
	Epochs     int    `yaml:"epochs"`
}

// Config is the pipeline configuration file structure.
type Config struct {
	Tokenizer     string          `yaml:"tokenizer"` // "simple" or "prose"
	Clean         bool            `yaml:"clean"`
	Stopwords     []string        `yaml:"stopwords"`
	StopwordsFile string          `yaml:"stopwords_file"`
	Punctuation   []string        `yaml:"punctuation"`
	Pretrained    string          `yaml:"pretrained"`
	Doc2Vec       Doc2VecSettings `yaml:"doc2vec"`
}

// LoadConfig reads a yaml config file. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Tokenizer: "simple"}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// corpusConfig assembles the docvec corpus configuration, resolving the
// tokenizer name and merging file-based stopwords.
func (c *Config) corpusConfig() (*docvec.CorpusConfig, error) {
	var tok tokenize.Tokenizer
	switch c.Tokenizer {
	case "", "simple":
		tok = tokenize.Simple{}
	case "prose":
		tok = tokenize.Prose{}
	default:
		return nil, fmt.Errorf("config: unknown tokenizer %q", c.Tokenizer)
	}

	stopwords := append([]string(nil), c.Stopwords...)
	if c.StopwordsFile != "" {
		data, err := os.ReadFile(c.StopwordsFile)
		if err != nil {
			return nil, fmt.Errorf("config: stopwords file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if word := strings.TrimSpace(line); word != "" {
				stopwords = append(stopwords, word)
			}
		}
	}

	return &docvec.CorpusConfig{
		Tokenizer:   tok,
		Clean:       c.Clean,
		Stopwords:   stopwords,
		Punctuation: c.Punctuation,
	}, nil
}
