//go:build !linux

package priority

import "errors"

func elevate() error {
	return errors.New("priority: thread priority elevation is not implemented on this platform")
}
