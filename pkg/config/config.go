// Package config reads and writes the wrapper's configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	homedir "github.com/mitchellh/go-homedir"
	yaml "gopkg.in/yaml.v3"

	"github.com/hed1ad/gospmf/pkg/miner"
)

// Algorithm holds per-algorithm defaults.
type Algorithm struct {
	Args []string `yaml:"args"`
}

type Config struct {
	JarDir      string                `yaml:"jar-dir,omitempty"`
	Java        string                `yaml:"java,omitempty"`
	Memory      int                   `yaml:"memory,omitempty"`
	Output      string                `yaml:"output,omitempty"`
	PrintStdout *bool                 `yaml:"print-stdout,omitempty"`
	Algorithms  map[string]*Algorithm `yaml:"algorithms,omitempty"`

	// configPath is the file path used for reading and writing this config.
	configPath string `yaml:"-"`
}

// Path returns the file this config was read from or will be written to.
func (c *Config) Path() string {
	return c.configPath
}

// Args returns the default arguments configured for algorithm.
func (c *Config) Args(algorithm string) []string {
	if a, ok := c.Algorithms[algorithm]; ok && a != nil {
		return a.Args
	}
	return nil
}

// Miner merges the file settings over miner.DefaultConfig.
func (c *Config) Miner() miner.Config {
	cfg := miner.DefaultConfig()
	if c.JarDir != "" {
		cfg.JarDir = c.JarDir
	}
	if c.Java != "" {
		cfg.Java = c.Java
	}
	if c.Memory > 0 {
		cfg.Memory = c.Memory
	}
	if c.Output != "" {
		cfg.Output = c.Output
	}
	if c.PrintStdout != nil {
		cfg.PrintStdout = *c.PrintStdout
	}
	return cfg
}

// Keys lists the settings accepted by Set.
var Keys = []string{"jar-dir", "java", "memory", "output", "print-stdout"}

// Set assigns a top level setting by its file key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "jar-dir":
		c.JarDir = value
	case "java":
		c.Java = value
	case "output":
		c.Output = value
	case "memory":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 0 {
			return fmt.Errorf("memory must be a non-negative number of megabytes, got %q", value)
		}
		c.Memory = mb
	case "print-stdout":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("print-stdout must be true or false, got %q", value)
		}
		c.PrintStdout = &v
	default:
		return fmt.Errorf("unknown key %q, must be one of: %s", key, strings.Join(Keys, ", "))
	}
	return nil
}

// SetArgs stores default arguments for algorithm. No arguments removes the entry.
func (c *Config) SetArgs(algorithm string, args []string) {
	if len(args) == 0 {
		delete(c.Algorithms, algorithm)
		return
	}
	if c.Algorithms == nil {
		c.Algorithms = make(map[string]*Algorithm)
	}
	c.Algorithms[algorithm] = &Algorithm{Args: args}
}

// Write saves the config as YAML, replacing the file atomically.
// Properties files are read-only.
func (c *Config) Write() error {
	configPath := c.configPath
	if configPath == "" {
		var err error
		configPath, err = getDefaultConfigPath()
		if err != nil {
			return err
		}
	}
	if strings.HasSuffix(configPath, ".properties") {
		return fmt.Errorf("cannot write %s: properties files are read-only, use a YAML config", configPath)
	}
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, "config.*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()

	encoder := yaml.NewEncoder(tmpFile)
	if err := encoder.Encode(c); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}
	c.configPath = configPath
	return nil
}

// ReadConfig reads cfgPath, or ~/.spmf/config when cfgPath is empty. A
// missing default file yields an empty config; an explicit path must exist.
// Files ending in ".properties" are read as Java properties.
func ReadConfig(cfgPath string) (c Config, err error) {
	resolvedPath, err := resolveConfigPath(cfgPath)
	if err != nil {
		return Config{}, err
	}

	if strings.HasSuffix(resolvedPath, ".properties") {
		c, err = readProperties(resolvedPath)
		if err != nil {
			return Config{}, err
		}
		c.configPath = resolvedPath
		return c, nil
	}

	file, err := os.Open(resolvedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{configPath: resolvedPath}, nil
		}
		return Config{}, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.configPath = resolvedPath
	return c, nil
}

// readProperties maps spmf.* keys; algorithm arguments are comma separated
// under spmf.algorithm.<name>.args.
func readProperties(path string) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, fmt.Errorf("load properties: %w", err)
	}

	c := Config{
		JarDir: p.GetString("spmf.jar-dir", ""),
		Java:   p.GetString("spmf.java", ""),
		Memory: p.GetInt("spmf.memory", 0),
		Output: p.GetString("spmf.output", ""),
	}
	if _, ok := p.Get("spmf.print-stdout"); ok {
		v := p.GetBool("spmf.print-stdout", true)
		c.PrintStdout = &v
	}

	const prefix = "spmf.algorithm."
	for _, key := range p.FilterPrefix(prefix).Keys() {
		name, field, ok := strings.Cut(strings.TrimPrefix(key, prefix), ".")
		if !ok || field != "args" {
			continue
		}
		if c.Algorithms == nil {
			c.Algorithms = make(map[string]*Algorithm)
		}
		var args []string
		for _, a := range strings.Split(p.MustGetString(key), ",") {
			if a = strings.TrimSpace(a); a != "" {
				args = append(args, a)
			}
		}
		c.Algorithms[name] = &Algorithm{Args: args}
	}

	return c, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func resolveConfigPath(cfgPath string) (string, error) {
	if cfgPath == "" {
		return getDefaultConfigPath()
	}
	expanded, err := homedir.Expand(cfgPath)
	if err != nil {
		return "", fmt.Errorf("expand config path: %w", err)
	}
	if !fileExists(expanded) {
		return "", fmt.Errorf("config file %q does not exist", cfgPath)
	}
	return expanded, nil
}

func getDefaultConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	return filepath.Join(home, ".spmf", "config"), nil
}
