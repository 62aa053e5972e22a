package legis

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Source describes one open-data source: its feed URLs plus the processing
// configuration the core consumes (similarity algorithm/threshold, output
// field inclusion list). Loaded from a YAML file in the sources directory;
// the file name (without extension) is the source name.
type Source struct {
	Name           string           // derived from filename
	InitiativesURL string           `yaml:"initiatives_url"`
	LawsURL        string           `yaml:"laws_url"`
	GazetteFeedURL string           `yaml:"gazette_feed"`
	Settings       SourceSettings   `yaml:"settings"`
	Similarity     SimilarityConfig `yaml:"similarity"`
	Output         OutputConfig     `yaml:"output"`
}

type SourceSettings struct {
	Enabled         bool   `yaml:"enabled"`
	RefreshInterval int    `yaml:"refresh_interval"` // seconds
	Timeout         int    `yaml:"timeout"`          // seconds
	Legislature     string `yaml:"legislature"`
	ExtractDossiers bool   `yaml:"extract_dossiers"`
}

type SimilarityConfig struct {
	Algorithm string  `yaml:"algorithm"`
	Threshold float64 `yaml:"threshold"`
}

// OutputConfig restricts which initiative fields the API exposes. An empty
// list means all fields.
type OutputConfig struct {
	Fields []string `yaml:"fields"`
}

type SourceCache struct {
	sourcesDir       string
	defaultAlgorithm string
	defaultThreshold float64
	cache            map[string]*Source
	mu               sync.RWMutex
}

// NewSourceCache creates a cache over the given sources directory. The
// similarity defaults apply to source files that omit their own similarity
// block; zero values fall back to levenshtein and DefaultThreshold.
func NewSourceCache(sourcesDir, defaultAlgorithm string, defaultThreshold float64) *SourceCache {
	if defaultAlgorithm == "" {
		defaultAlgorithm = "levenshtein"
	}
	if defaultThreshold == 0 {
		defaultThreshold = DefaultThreshold
	}
	return &SourceCache{
		sourcesDir:       sourcesDir,
		defaultAlgorithm: defaultAlgorithm,
		defaultThreshold: defaultThreshold,
		cache:            make(map[string]*Source),
	}
}

func (sc *SourceCache) Run() error {
	if _, err := os.Stat(sc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(sc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		sourceName := strings.TrimSuffix(filepath.Base(file), ".yml")

		source, err := sc.LoadSource(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded", "source", sourceName,
			"enabled", source.Settings.Enabled,
			"refresh_interval", source.Settings.RefreshInterval,
			"similarity_algorithm", source.Similarity.Algorithm,
			"similarity_threshold", source.Similarity.Threshold)
	}

	return nil
}

func (sc *SourceCache) LoadSource(sourceName string) (*Source, error) {
	configFile := filepath.Join(sc.sourcesDir, sourceName+".yml")
	source, err := sc.parseSource(configFile)
	if err != nil {
		return nil, err
	}

	source.Name = sourceName

	if err := sc.validateSource(source); err != nil {
		return nil, fmt.Errorf("invalid source config %s: %w", configFile, err)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache[source.Name] = source

	return source, nil
}

func (sc *SourceCache) GetSource(sourceName string) (*Source, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	source, ok := sc.cache[sourceName]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", sourceName)
	}
	return source, nil
}

func (sc *SourceCache) GetSources() map[string]*Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	sourcesCopy := make(map[string]*Source, len(sc.cache))
	for k, v := range sc.cache {
		sourcesCopy[k] = v
	}
	return sourcesCopy
}

func (sc *SourceCache) GetEnabledSources() map[string]*Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	enabled := make(map[string]*Source)
	for k, v := range sc.cache {
		if v.Settings.Enabled {
			enabled[k] = v
		}
	}
	return enabled
}

func (sc *SourceCache) GetSourceCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.cache)
}

func (sc *SourceCache) parseSource(configFile string) (*Source, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Settings.RefreshInterval == 0 {
		source.Settings.RefreshInterval = 3600
	}
	if source.Settings.Timeout == 0 {
		source.Settings.Timeout = 30
	}
	if source.Similarity.Algorithm == "" {
		source.Similarity.Algorithm = sc.defaultAlgorithm
	}
	if source.Similarity.Threshold == 0 {
		source.Similarity.Threshold = sc.defaultThreshold
	}

	return &source, nil
}

var validOutputFields = map[string]bool{
	"expediente":  true,
	"type":        true,
	"subject":     true,
	"author":      true,
	"presented":   true,
	"qualified":   true,
	"legislature": true,
	"committee":   true,
	"category":    true,
	"stage":       true,
	"step":        true,
	"signals":     true,
	"events":      true,
	"edges":       true,
}

func (sc *SourceCache) validateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("source is nil")
	}

	if source.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if source.InitiativesURL == "" {
		return fmt.Errorf("initiatives URL is required")
	}

	nonNegativeFields := map[string]int{
		"refresh interval": source.Settings.RefreshInterval,
		"timeout":          source.Settings.Timeout,
	}
	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	switch source.Similarity.Algorithm {
	case "levenshtein", "jaro_winkler":
	default:
		return fmt.Errorf("unknown similarity algorithm: %s", source.Similarity.Algorithm)
	}

	if source.Similarity.Threshold < 0 || source.Similarity.Threshold > 1 {
		return fmt.Errorf("similarity threshold must be in [0,1]")
	}

	for i, field := range source.Output.Fields {
		if !validOutputFields[field] {
			return fmt.Errorf("invalid output field at index %d: %s", i, field)
		}
	}

	return nil
}
