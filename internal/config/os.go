package config

import (
	"fmt"
	"runtime"
)

// OperatingSystem identifies the platform the editor is configured for.
type OperatingSystem int

// Supported operating systems.
const (
	Linux OperatingSystem = iota
	Windows
	MacOS
	FreeBSD
)

var operatingSystems = map[string]OperatingSystem{
	"Linux":   Linux,
	"Windows": Windows,
	"MacOS":   MacOS,
	"FreeBSD": FreeBSD,
}

// String returns the configuration name of the operating system.
func (o OperatingSystem) String() string {
	switch o {
	case Linux:
		return "Linux"
	case Windows:
		return "Windows"
	case MacOS:
		return "MacOS"
	case FreeBSD:
		return "FreeBSD"
	default:
		return "Unknown"
	}
}

// ParseOperatingSystem converts a configuration name to an OperatingSystem.
// Names are case-sensitive, as written in the settings file.
func ParseOperatingSystem(name string) (OperatingSystem, error) {
	if o, ok := operatingSystems[name]; ok {
		return o, nil
	}
	return Linux, fmt.Errorf("%w: %q", ErrUnsupportedOS, name)
}

// HostOperatingSystem maps runtime.GOOS to an OperatingSystem.
// Unknown platforms report Linux.
func HostOperatingSystem() OperatingSystem {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	case "freebsd":
		return FreeBSD
	default:
		return Linux
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o OperatingSystem) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *OperatingSystem) UnmarshalText(text []byte) error {
	parsed, err := ParseOperatingSystem(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
