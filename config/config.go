// Copyright 2025 Veridian Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Splitter strategy names accepted in the ingest section.
const (
	SplitterToken  = "token"
	SplitterWindow = "window"
)

// Memory backend names accepted in the memory section.
const (
	MemoryInProcess = "memory"
	MemoryBadger    = "badger"
)

type Config struct {
	AI struct {
		Host           string `yaml:"host"`
		EmbeddingHost  string `yaml:"embedding_host"`
		ChatHost       string `yaml:"chat_host"`
		EmbeddingModel string `yaml:"embedding_model"`
		ChatModel      string `yaml:"chat_model"`
		Token          string `yaml:"token"`
	} `yaml:"ai"`

	Database struct {
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
		VectorDim int    `yaml:"vector_dim"`
	} `yaml:"database"`

	Ingest struct {
		Pattern  string `yaml:"pattern"`
		Splitter string `yaml:"splitter"`
		PoolSize int    `yaml:"pool_size"`

		// Token splitter settings.
		TargetTokens     int `yaml:"target_tokens"`
		MinCharsPerChunk int `yaml:"min_chars_per_chunk"`
		MinTokensToEmbed int `yaml:"min_tokens_to_embed"`
		MaxChunks        int `yaml:"max_chunks"`

		// Window splitter settings.
		WindowSize int `yaml:"window_size"`
		Overlap    int `yaml:"overlap"`
	} `yaml:"ingest"`

	Chat struct {
		// SimilarityThreshold is a pointer so an explicit 0 (accept every
		// match) is distinguishable from the key being absent.
		SimilarityThreshold *float32 `yaml:"similarity_threshold"`
		RetrievalLimit      int      `yaml:"retrieval_limit"`
	} `yaml:"chat"`

	Memory struct {
		Backend  string `yaml:"backend"`
		Path     string `yaml:"path"`
		MaxTurns int    `yaml:"max_turns"`
	} `yaml:"memory"`
}

// Load reads configuration from the given path. With an empty path it
// tries the default locations and falls back to pure defaults when no
// file exists.
func Load(path string) (*Config, error) {
	if path == "" {
		locations := []string{
			"vigia.yaml",
			"vigia.yml",
			filepath.Join(os.Getenv("HOME"), ".config/vigia/config.yaml"),
			"/etc/vigia/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	mergeWithEnv(config)
	applyDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyDefaults(config *Config) {
	if config.AI.Host == "" {
		config.AI.Host = "http://localhost:11434/v1"
	}
	if config.AI.EmbeddingHost == "" {
		config.AI.EmbeddingHost = config.AI.Host
	}
	if config.AI.ChatHost == "" {
		config.AI.ChatHost = config.AI.Host
	}
	if config.AI.EmbeddingModel == "" {
		config.AI.EmbeddingModel = "embeddinggemma"
	}
	if config.AI.ChatModel == "" {
		config.AI.ChatModel = "qwen2.5:3b"
	}
	if config.AI.Token == "" {
		config.AI.Token = "none"
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "documents"
	}
	if config.Database.VectorDim == 0 {
		config.Database.VectorDim = 384
	}

	if config.Ingest.Pattern == "" {
		config.Ingest.Pattern = "data/*/*"
	}
	if config.Ingest.Splitter == "" {
		config.Ingest.Splitter = SplitterToken
	}
	if config.Ingest.TargetTokens == 0 {
		config.Ingest.TargetTokens = 504
	}
	if config.Ingest.MinCharsPerChunk == 0 {
		config.Ingest.MinCharsPerChunk = 100
	}
	if config.Ingest.MinTokensToEmbed == 0 {
		config.Ingest.MinTokensToEmbed = 50
	}
	if config.Ingest.MaxChunks == 0 {
		config.Ingest.MaxChunks = 100
	}
	if config.Ingest.WindowSize == 0 {
		config.Ingest.WindowSize = 500
	}
	if config.Ingest.Overlap == 0 {
		config.Ingest.Overlap = 50
	}

	if config.Chat.SimilarityThreshold == nil {
		threshold := float32(0.7)
		config.Chat.SimilarityThreshold = &threshold
	}
	if config.Chat.RetrievalLimit == 0 {
		config.Chat.RetrievalLimit = 4
	}

	if config.Memory.Backend == "" {
		config.Memory.Backend = MemoryInProcess
	}
	if config.Memory.Path == "" {
		config.Memory.Path = filepath.Join(os.Getenv("HOME"), ".local/share/vigia/memory")
	}
	if config.Memory.MaxTurns == 0 {
		config.Memory.MaxTurns = 6
	}
}

func mergeWithEnv(config *Config) {
	if host := os.Getenv("VIGIA_AI_HOST"); host != "" {
		config.AI.Host = host
		config.AI.EmbeddingHost = ""
		config.AI.ChatHost = ""
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if token := os.Getenv("VIGIA_AI_TOKEN"); token != "" {
		config.AI.Token = token
	}
}

// Validate rejects configurations no component could run with.
func (c *Config) Validate() error {
	switch c.Ingest.Splitter {
	case SplitterToken, SplitterWindow:
	default:
		return fmt.Errorf("unknown splitter %q (want %q or %q)", c.Ingest.Splitter, SplitterToken, SplitterWindow)
	}

	switch c.Memory.Backend {
	case MemoryInProcess, MemoryBadger:
	default:
		return fmt.Errorf("unknown memory backend %q (want %q or %q)", c.Memory.Backend, MemoryInProcess, MemoryBadger)
	}

	if c.Chat.SimilarityThreshold != nil {
		if t := *c.Chat.SimilarityThreshold; t < 0 || t > 1 {
			return fmt.Errorf("similarity_threshold %f out of range [0, 1]", t)
		}
	}
	if c.Ingest.Overlap >= c.Ingest.WindowSize {
		return fmt.Errorf("overlap %d must be smaller than window_size %d", c.Ingest.Overlap, c.Ingest.WindowSize)
	}
	return nil
}
