//go:build !linux

package ssd1306

import "fmt"

// OpenBus is only available on Linux.
func OpenBus(device string, addr int) (Bus, error) {
	return nil, fmt.Errorf("open %s (0x%02x): i2c-dev is only supported on linux", device, addr)
}
