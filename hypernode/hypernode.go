// Package hypernode describes the Hypernode boxes that hypernode-vagrant can
// start: the PHP versions and SSH users it offers and the Ubuntu images it
// ships them on.
package hypernode

import (
	"fmt"
	"strings"
)

const (
	// Repository is the upstream hypernode-vagrant checkout.
	Repository = "https://github.com/ByteInternet/hypernode-vagrant"

	// UploadPath is where projects are uploaded inside the box.
	UploadPath = "/data/web/public"
)

type PHPVersion string

const (
	PHP55 PHPVersion = "5.5"
	PHP56 PHPVersion = "5.6"
	PHP70 PHPVersion = "7.0"
	PHP71 PHPVersion = "7.1"
	PHP72 PHPVersion = "7.2"

	DefaultPHPVersion = PHP70
)

// PHPVersions lists the supported versions in ascending order.
var PHPVersions = []PHPVersion{PHP55, PHP56, PHP70, PHP71, PHP72}

func (v PHPVersion) String() string { return string(v) }

// ParsePHPVersion returns the PHPVersion for s or an error naming the
// supported versions.
func ParsePHPVersion(s string) (PHPVersion, error) {
	for _, v := range PHPVersions {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid PHP version %q (choose from %s)", s, Choices(PHPVersions))
}

type SSHUser string

const (
	UserApp  SSHUser = "app"
	UserRoot SSHUser = "root"

	DefaultSSHUser = UserApp
)

var SSHUsers = []SSHUser{UserApp, UserRoot}

func (u SSHUser) String() string { return string(u) }

// ParseSSHUser returns the SSHUser for s or an error naming the supported
// users.
func ParseSSHUser(s string) (SSHUser, error) {
	for _, u := range SSHUsers {
		if string(u) == s {
			return u, nil
		}
	}
	return "", fmt.Errorf("invalid user %q (choose from %s)", s, Choices(SSHUsers))
}

// Image is the Ubuntu release a box is built on.
type Image int

const (
	Precise Image = iota
	Xenial
)

func (i Image) String() string {
	switch i {
	case Precise:
		return "precise"
	case Xenial:
		return "xenial"
	default:
		return fmt.Sprintf("Image(%d)", int(i))
	}
}

// unavailable maps an image to the PHP versions it cannot run.
var unavailable = map[Image]map[PHPVersion]bool{
	Precise: {PHP71: true, PHP72: true},
}

// Supports reports whether the image ships the given PHP version.
func Supports(image Image, php PHPVersion) bool {
	return !unavailable[image][php]
}

// PreciseUnavailable returns the PHP versions that require the Xenial image.
func PreciseUnavailable() []PHPVersion {
	var out []PHPVersion
	for _, v := range PHPVersions {
		if !Supports(Precise, v) {
			out = append(out, v)
		}
	}
	return out
}

// Choices joins enum values for help texts and error messages.
func Choices[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
