package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	configEnv = "IRR_RESOLVER_CONFIG"

	pathEnv    = "BGPQ3_PATH"
	hostEnv    = "BGPQ3_HOST"
	sourcesEnv = "BGPQ3_SOURCES"

	DefaultPath          = "bgpq3"
	DefaultHost          = "rr.ntt.net"
	DefaultSources       = "RPKI,RIPE,ARIN,APNIC,AFRINIC,LACNIC,RIPE-NONAUTH,RADB,ALTDB,NTTCOM,LEVEL3,TC"
	DefaultListenAddress = ":7090"
)

var (
	configFile = "/opt/irr-resolver/config.yaml"
)

type Config struct {
	BGPQ BGPQConfig `yaml:"bgpq"`
	// RecognizedSources are the registry names stripped from AS-SET tokens.
	// Falls back to the sources passed to bgpq when empty.
	RecognizedSources []string        `yaml:"recognizedSources"`
	Collector         CollectorConfig `yaml:"collector"`
	ListenAddress     string          `yaml:"listenAddress"`
}

type BGPQConfig struct {
	Path    string        `yaml:"path"`
	Host    string        `yaml:"host"`
	Sources string        `yaml:"sources"`
	Args    ExtraArguments `yaml:"args"`
}

// ExtraArguments are vendor arguments spliced into prefix expansions.
type ExtraArguments struct {
	IPv4 []string `yaml:"ipv4"`
	IPv6 []string `yaml:"ipv6"`
}

type CollectorConfig struct {
	Concurrency int  `yaml:"concurrency"`
	Deduplicate bool `yaml:"deduplicate"`
	Aggregate   bool `yaml:"aggregate"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		BGPQ: BGPQConfig{
			Path:    DefaultPath,
			Host:    DefaultHost,
			Sources: DefaultSources,
			Args: ExtraArguments{
				IPv4: []string{"-r", "8", "-R", "24"},
				IPv6: []string{"-r", "16", "-R", "48"},
			},
		},
		Collector: CollectorConfig{
			Concurrency: 1,
		},
		ListenAddress: DefaultListenAddress,
	}
}

// LoadConfig reads the file named by IRR_RESOLVER_CONFIG, or the default
// location. A missing default file is not an error.
func LoadConfig() (*Config, error) {
	path, explicit := os.LookupEnv(configEnv)
	if !explicit || path == "" {
		path = configFile
		explicit = false
	}

	read, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			config := Default()
			config.applyEnv()
			return config, config.Validate()
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return parse(read)
}

// LoadConfigFromFile reads the configuration from path.
func LoadConfigFromFile(path string) (*Config, error) {
	read, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return parse(read)
}

func parse(read []byte) (*Config, error) {
	config := Default()
	if err := yaml.UnmarshalStrict(read, config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file: %w", err)
	}
	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if val := os.Getenv(pathEnv); val != "" {
		c.BGPQ.Path = val
	}
	if val := os.Getenv(hostEnv); val != "" {
		c.BGPQ.Host = val
	}
	if val := os.Getenv(sourcesEnv); val != "" {
		c.BGPQ.Sources = val
	}
}

// Validate checks that the tool can be invoked with this configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BGPQ.Path) == "" {
		return errors.New("bgpq path must not be empty")
	}
	if strings.TrimSpace(c.BGPQ.Host) == "" {
		return errors.New("bgpq host must not be empty")
	}
	if len(c.Sources()) == 0 {
		return errors.New("at least one bgpq source is required")
	}
	if c.Collector.Concurrency < 0 {
		return fmt.Errorf("collector concurrency must be >= 0, got %d", c.Collector.Concurrency)
	}
	return nil
}

// Sources returns the configured registry sources in order.
func (c *Config) Sources() []string {
	return splitList(c.BGPQ.Sources)
}

// RecognizedSourceList returns the source names the normalizer strips.
func (c *Config) RecognizedSourceList() []string {
	if len(c.RecognizedSources) > 0 {
		result := make([]string, 0, len(c.RecognizedSources))
		for _, s := range c.RecognizedSources {
			if s = strings.TrimSpace(s); s != "" {
				result = append(result, s)
			}
		}
		return result
	}
	return c.Sources()
}

// ExtraArgs returns a copy of the vendor arguments for an address family.
func (c *Config) ExtraArgs(family int) []string {
	args := c.BGPQ.Args.IPv4
	if family == 6 {
		args = c.BGPQ.Args.IPv6
	}
	return append([]string(nil), args...)
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
