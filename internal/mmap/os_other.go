//go:build !unix && !windows

package mmap

import "errors"

func osMapAnon(int) ([]byte, error) {
	return nil, errors.ErrUnsupported
}

func osAdvise([]byte, AccessPattern) error {
	return nil
}
