package plumbing

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/brickster241/caf/utils"
)

func configPath() string {
	return utils.RepoPath("config")
}

func splitConfigKey(key string) (string, string, error) {
	section, name, ok := strings.Cut(key, ".")
	if !ok || section == "" || name == "" {
		return "", "", fmt.Errorf("invalid config key: %s", key)
	}
	return section, name, nil
}

// GetConfig returns the value of "<section>.<key>" from .caf/config. The bool is false if the key is unset.
func GetConfig(key string) (string, bool, error) {
	section, name, err := splitConfigKey(key)
	if err != nil {
		return "", false, err
	}

	cfg, err := ini.Load(configPath())
	if err != nil {
		return "", false, fmt.Errorf("load config: %w", err)
	}

	if !cfg.Section(section).HasKey(name) {
		return "", false, nil
	}
	return cfg.Section(section).Key(name).String(), true, nil
}

// SetConfig stores "<section>.<key>" = value in .caf/config.
func SetConfig(key, value string) error {
	section, name, err := splitConfigKey(key)
	if err != nil {
		return err
	}

	cfgPath := configPath()
	cfg, err := ini.LooseLoad(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg.Section(section).Key(name).SetValue(value)
	if err := cfg.SaveTo(cfgPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	log.Debug("config %s = %s", key, value)
	return nil
}

// UnsetConfig removes a key from .caf/config. Removing a missing key is not an error.
func UnsetConfig(key string) error {
	section, name, err := splitConfigKey(key)
	if err != nil {
		return err
	}

	cfgPath := configPath()
	cfg, err := ini.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Section(section).DeleteKey(name)
	return cfg.SaveTo(cfgPath)
}
