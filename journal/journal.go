// journal/journal.go
package journal

import "errors"

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("journal: store is closed")

// Store is the durable key-value space the ledger is mirrored into. Values
// are opaque text; a missing key is reported with ok == false, not an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}
