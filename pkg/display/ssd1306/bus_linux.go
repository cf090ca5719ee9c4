//go:build linux

package ssd1306

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// i2cSlave is the I2C_SLAVE ioctl request from linux/i2c-dev.h.
const i2cSlave = 0x0703

// OpenBus opens an i2c-dev character device and binds it to addr.
func OpenBus(device string, addr int) (Bus, error) {
	f, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, addr); err != nil {
		f.Close()
		return nil, fmt.Errorf("set i2c address 0x%02x on %s: %w", addr, device, err)
	}
	return f, nil
}
