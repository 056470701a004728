// Package config loads the orchestrator and provider configuration from YAML, with
// ${VAR} expansion from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	BackendBedrock = "bedrock"
	BackendGemini  = "gemini"
)

// Config is the full process configuration.
type Config struct {
	Server    ServerConfig              `yaml:"server"`
	Log       LogConfig                 `yaml:"log"`
	Providers map[string]string         `yaml:"providers"`
	Tools     ToolsConfig               `yaml:"tools"`
	Reasoning ReasoningConfig           `yaml:"reasoning"`
	Backends  map[string]map[string]any `yaml:"backends"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ToolsConfig struct {
	Timeout Duration `yaml:"timeout"`
}

type ReasoningConfig struct {
	Backend   string   `yaml:"backend"`
	Model     string   `yaml:"model"`
	Region    string   `yaml:"region"`
	APIKey    string   `yaml:"api_key"`
	MaxTokens int      `yaml:"max_tokens"`
	Timeout   Duration `yaml:"timeout"`
}

// Duration is a time.Duration written as a string ("30s") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", n.Line, s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Listen: ":8000"},
		Log:    LogConfig{Level: "info", Format: "text"},
		Providers: map[string]string{
			"aws":      "http://aws-mcp-service:80",
			"database": "http://database-mcp-service:80",
			"custom":   "http://custom-mcp-service:80",
			"k8s":      "http://k8s-mcp-service.k8s-admin:80",
		},
		Tools: ToolsConfig{Timeout: Duration(30 * time.Second)},
		Reasoning: ReasoningConfig{
			Backend:   BackendBedrock,
			Model:     "amazon.titan-text-lite-v1",
			Region:    "us-west-2",
			MaxTokens: 200,
			Timeout:   Duration(30 * time.Second),
		},
		Backends: map[string]map[string]any{},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document over the defaults. Keys absent from the document keep their
// default values; provider entries are merged by id.
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg := Default()
	if len(doc.Content) > 0 {
		expandNode(&doc)
		if err := doc.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment files that exist, without overriding variables that are
// already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Validate checks the values the process cannot start without.
func (c *Config) Validate() error {
	var errs []error
	for id, endpoint := range c.Providers {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("providers.%s: invalid endpoint %q", id, endpoint))
		}
	}
	if c.Tools.Timeout <= 0 {
		errs = append(errs, errors.New("tools.timeout must be positive"))
	}
	switch c.Reasoning.Backend {
	case BackendBedrock, BackendGemini:
	default:
		errs = append(errs, fmt.Errorf("reasoning.backend: unknown backend %q", c.Reasoning.Backend))
	}
	if c.Reasoning.MaxTokens <= 0 {
		errs = append(errs, errors.New("reasoning.max_tokens must be positive"))
	}
	return errors.Join(errs...)
}

// BackendOptions decodes the free-form options of one provider backend into out.
// Absent sections leave out untouched.
func (c *Config) BackendOptions(name string, out any) error {
	raw, ok := c.Backends[name]
	if !ok {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("backends.%s: %w", name, err)
	}
	return nil
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// expandEnv replaces ${VAR} with its value. Unset variables are left as written.
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func expandNode(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" {
		n.Value = expandEnv(n.Value)
		return
	}
	for _, c := range n.Content {
		expandNode(c)
	}
}
