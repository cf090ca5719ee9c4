//go:build !linux

package load

import "github.com/danpilch/oledmon/pkg/collectors"

func sysinfoLoad5() (float64, error) {
	return 0, collectors.ErrUnsupported
}
