//go:build !unix

package writelock

import (
	"fmt"
	"runtime"
)

func acquire(_ string) (Lock, error) {
	return nil, fmt.Errorf("%w on %s", ErrUnsupported, runtime.GOOS)
}
