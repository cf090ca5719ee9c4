//go:build linux

package load

import "golang.org/x/sys/unix"

// sysinfoLoad5 returns the 5-minute load average from sysinfo(2).
func sysinfoLoad5() (float64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	// Loads are scaled by 65536
	return float64(info.Loads[1]) / 65536.0, nil
}
