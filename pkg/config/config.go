// Package config loads and holds all tattle configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for tattle.
type Config struct {
	// Detection parameters
	Detect DetectConfig `koanf:"detect"`

	// Corpus discovery settings
	Corpus CorpusConfig `koanf:"corpus"`

	// Cache settings
	Cache CacheConfig `koanf:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output"`

	// HTTP service settings
	Server ServerConfig `koanf:"server"`
}

// DetectConfig holds the fingerprinting and comparison parameters.
type DetectConfig struct {
	ShingleSize         int     `koanf:"shingle_size"`
	Window              int     `koanf:"window"`
	FileThreshold       float64 `koanf:"file_threshold"`
	AssignmentThreshold float64 `koanf:"assignment_threshold"`
	TopMatches          int     `koanf:"top_matches"`
	Workers             int     `koanf:"workers"`
}

// CorpusConfig controls which files enter the pipeline.
type CorpusConfig struct {
	Extensions []string `koanf:"extensions"`
	IgnoreDirs []string `koanf:"ignore_dirs"`
	Gitignore  bool     `koanf:"gitignore"`
}

// CacheConfig controls fingerprint caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// ServerConfig controls the upload/check HTTP service.
type ServerConfig struct {
	Port                string   `koanf:"port"`
	CorpusDir           string   `koanf:"corpus_dir"`
	MaxUploadBytes      int64    `koanf:"max_upload_bytes"`
	PerFileMaxBytes     int64    `koanf:"per_file_max_bytes"`
	UploadExtensions    []string `koanf:"upload_extensions"`
	CheckTimeoutSeconds int      `koanf:"check_timeout_seconds"`
}

// DefaultConfig returns a config with the reference defaults: k=5, w=4,
// thresholds 0.40/0.40, top 5 matches per direction.
func DefaultConfig() *Config {
	return &Config{
		Detect: DetectConfig{
			ShingleSize:         5,
			Window:              4,
			FileThreshold:       0.40,
			AssignmentThreshold: 0.40,
			TopMatches:          5,
			Workers:             0, // 0 = derive from NumCPU
		},
		Corpus: CorpusConfig{
			Extensions: []string{
				".c", ".h", ".cpp", ".hpp", ".cc", ".hh", ".cxx", ".hxx",
				".java", ".js", ".jsx", ".ts", ".tsx",
				".py", ".rb", ".go", ".rs", ".swift", ".kt", ".kts",
				".cs", ".m", ".mm",
				".php", ".html", ".css", ".scss", ".sql", ".sh", ".bat", ".ps1",
				".r", ".jl", ".pl", ".lua",
			},
			IgnoreDirs: []string{
				"node_modules", ".git", ".hg", ".svn", ".idea", ".vs", ".vscode",
				".venv", "venv", "__pycache__", "dist", "build", "target", "out",
			},
			Gitignore: false,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".tattle/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
		Server: ServerConfig{
			Port:                "8080",
			CorpusDir:           "corpus",
			MaxUploadBytes:      10 << 20,
			PerFileMaxBytes:     10 << 20,
			UploadExtensions:    []string{".cpp"},
			CheckTimeoutSeconds: 120,
		},
	}
}

// Load loads configuration from a file, with the parser chosen by extension.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries standard config locations and falls back to defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"tattle.toml", "tattle.yaml", "tattle.yml", "tattle.json",
		".tattle.toml", ".tattle.yaml", ".tattle.yml", ".tattle.json",
	}
	searchDirs := []string{".", ".tattle"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				if cfg, err := Load(path); err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// Validate rejects parameter combinations the pipeline cannot honor.
// Non-positive k or w is allowed (it yields empty fingerprint sets, which is
// defined behavior), but thresholds must stay within [0,1].
func (c *Config) Validate() error {
	if c.Detect.FileThreshold < 0 || c.Detect.FileThreshold > 1 {
		return fmt.Errorf("detect.file_threshold %f outside [0,1]", c.Detect.FileThreshold)
	}
	if c.Detect.AssignmentThreshold < 0 || c.Detect.AssignmentThreshold > 1 {
		return fmt.Errorf("detect.assignment_threshold %f outside [0,1]", c.Detect.AssignmentThreshold)
	}
	return nil
}

// AllowsExtension reports whether a file extension is on the corpus
// allowlist. The comparison is case-insensitive.
func (c *Config) AllowsExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.Corpus.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// IgnoresDir reports whether a directory name is on the ignore list.
func (c *Config) IgnoresDir(name string) bool {
	for _, dir := range c.Corpus.IgnoreDirs {
		if name == dir {
			return true
		}
	}
	return false
}
