//go:build !unix

package discovery

import "syscall"

func controlBroadcast(network, address string, c syscall.RawConn) error {
	return nil
}
