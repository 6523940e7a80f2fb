package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/byteinternet/hypernode-vagrant-runner/hypernode"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const DirName = "hypernode-vagrant-runner"

// Settings tune how the runner prepares a box. None of them are exposed as
// flags; they come from an optional config file.
type Settings struct {
	Repository     string `koanf:"repository"`
	UploadPath     string `koanf:"upload-path"`
	FSType         string `koanf:"fs-type"`
	MagentoVersion int    `koanf:"magento-version"`
	Varnish        bool   `koanf:"varnish"`
	Firewall       bool   `koanf:"firewall"`
	UploadAttempts int    `koanf:"upload-attempts"`
}

func Default() Settings {
	return Settings{
		Repository:     hypernode.Repository,
		UploadPath:     hypernode.UploadPath,
		FSType:         hypernode.DefaultFSType,
		MagentoVersion: hypernode.DefaultMagentoVersion,
		UploadAttempts: 5,
	}
}

// Load reads settings from the YAML file at path on top of the defaults.
// A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Settings{}, fmt.Errorf("load %s: %w", path, err)
	}
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, s.validate()
}

func (s Settings) validate() error {
	if s.Repository == "" {
		return fmt.Errorf("repository must not be empty")
	}
	if s.UploadPath == "" || !filepath.IsAbs(s.UploadPath) {
		return fmt.Errorf("upload-path must be an absolute path, got %q", s.UploadPath)
	}
	if s.UploadAttempts < 1 {
		return fmt.Errorf("upload-attempts must be at least 1, got %d", s.UploadAttempts)
	}
	return nil
}

// LocalConfig returns the local.yml contents for a box with the given PHP
// version, image and xdebug state, using these settings for the rest.
func (s Settings) LocalConfig(php hypernode.PHPVersion, image hypernode.Image, xdebug bool) hypernode.LocalConfig {
	c := hypernode.NewLocalConfig(php, image, xdebug)
	c.FS.Type = s.FSType
	c.Magento.Version = s.MagentoVersion
	c.Varnish.State = s.Varnish
	c.Firewall.State = s.Firewall
	return c
}

func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, DirName, "config.yaml")
}
