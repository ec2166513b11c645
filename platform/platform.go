// Package platform maps host operating systems and architectures onto the
// paths used by the butler distribution server.
package platform

import (
	"runtime"

	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
)

// Current returns the broth path for the running host.
func Current() (string, error) {
	return ButlerOSPath(runtime.GOOS, runtime.GOARCH)
}

// ButlerOSPath returns the "<os>-<arch>" path segment for goos and goarch.
// Both Go names and Node-style names are accepted (win32, x64, x32, ia32).
func ButlerOSPath(goos, goarch string) (string, error) {
	var osName string
	switch goos {
	case "linux", "darwin":
		osName = goos
	case "windows", "win32":
		osName = "windows"
	default:
		return "", errors.NewWithContext(errors.CodeInvalidConfig,
			"unknown OS platform", map[string]interface{}{"platform": goos})
	}

	arch, err := butlerArch(goarch)
	if err != nil {
		return "", err
	}
	return osName + "-" + arch, nil
}

func butlerArch(goarch string) (string, error) {
	switch goarch {
	case "amd64", "x64":
		return "amd64", nil
	case "386", "x32", "ia32":
		return "386", nil
	default:
		return "", errors.NewWithContext(errors.CodeInvalidConfig,
			"unknown OS architecture", map[string]interface{}{"arch": goarch})
	}
}

// ExecutableName returns the butler binary name on goos.
func ExecutableName(goos string) string {
	if goos == "windows" || goos == "win32" {
		return "butler.exe"
	}
	return "butler"
}
