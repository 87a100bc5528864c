package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// Credentials identify this device to the storage backend. They are not a
// managed secret, just a deterministic recipe over the hardware serial so
// every device can be provisioned without distributing per-device keys.
type Credentials struct {
	Name     string
	Serial   string
	Password string
}

const passwordLength = 15

// Derive builds device credentials from a hardware serial number: the
// serial is the last 8 characters, the name prefixes it with "cam-" and
// the password is the truncated hex sha256 of the name.
func Derive(hardwareSerial string) (Credentials, error) {
	serial := strings.ToLower(strings.TrimSpace(hardwareSerial))

	if serial == "" {
		return Credentials{}, fmt.Errorf("empty hardware serial")
	}

	if len(serial) > 8 {
		serial = serial[len(serial)-8:]
	}

	name := "cam-" + serial
	sum := sha256.Sum256([]byte(name))

	return Credentials{
		Name:     name,
		Serial:   serial,
		Password: hex.EncodeToString(sum[:])[:passwordLength],
	}, nil
}

// ReadHardwareSerial reads the board serial from /proc/cpuinfo, falling
// back to the devicetree serial-number node.
func ReadHardwareSerial() (string, error) {
	data, err := os.ReadFile("/proc/cpuinfo")

	if err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if !strings.HasPrefix(line, "Serial") {
				continue
			}

			if _, value, found := strings.Cut(line, ":"); found {
				serial := strings.TrimSpace(value)
				if serial != "" {
					return serial, nil
				}
			}
		}
	}

	data, err = os.ReadFile("/sys/firmware/devicetree/base/serial-number")

	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(data), "\x00\n"), nil
}

// ResolveDevice settles the identity pair the uploader runs as. An
// explicit user wins; otherwise the name and, when none was supplied, the
// password are derived from the hardware serial, falling back to the
// hostname identity with the password passed through.
func ResolveDevice(user, password string) (string, string) {
	if user != "" {
		return user, password
	}

	if serial, err := ReadHardwareSerial(); err == nil {
		if creds, err := Derive(serial); err == nil {
			if password == "" {
				password = creds.Password
			}
			return creds.Name, password
		}
	}

	return DeviceName(), password
}

// DeviceName is the identifier recordings are keyed under in the bucket:
// the derived credential name when a hardware serial is available, the
// hostname otherwise.
func DeviceName() string {
	if serial, err := ReadHardwareSerial(); err == nil {
		if creds, err := Derive(serial); err == nil {
			return creds.Name
		}
	}

	hostname, err := os.Hostname()

	if err != nil {
		return "unknown-device"
	}

	return hostname
}
