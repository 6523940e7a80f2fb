package hypernode

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// LocalConfigName is the file hypernode-vagrant reads its box settings from.
	LocalConfigName = "local.yml"

	DefaultFSType         = "virtualbox"
	DefaultMagentoVersion = 2
)

type State struct {
	State bool `yaml:"state"`
}

type LocalConfig struct {
	FS struct {
		Type string `yaml:"type"`
	} `yaml:"fs"`
	Magento struct {
		Version int `yaml:"version"`
	} `yaml:"magento"`
	PHP struct {
		Version PHPVersion `yaml:"version"`
	} `yaml:"php"`
	Varnish       State  `yaml:"varnish"`
	Firewall      State  `yaml:"firewall"`
	Xdebug        State  `yaml:"xdebug"`
	UbuntuVersion string `yaml:"ubuntu_version"`
}

// NewLocalConfig returns the settings for a box running php on image.
func NewLocalConfig(php PHPVersion, image Image, xdebug bool) LocalConfig {
	var c LocalConfig
	c.FS.Type = DefaultFSType
	c.Magento.Version = DefaultMagentoVersion
	c.PHP.Version = php
	c.Xdebug.State = xdebug
	c.UbuntuVersion = image.String()
	return c
}

func (c LocalConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append([]byte("---\n"), data...), nil
}

// WriteFile writes the config as local.yml into the checkout at dir.
func (c LocalConfig) WriteFile(dir string) (string, error) {
	data, err := c.Marshal()
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", LocalConfigName, err)
	}
	path := filepath.Join(dir, LocalConfigName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", LocalConfigName, err)
	}
	return path, nil
}
