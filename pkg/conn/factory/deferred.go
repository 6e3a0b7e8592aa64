package factory

import (
	"context"

	"github.com/tigerroll/riptide/pkg/conn/client"
)

// Deferred represents a connection that is still being established.
// It is resolved exactly once, by the goroutine the factory started for it;
// callers block in Await until then.
type Deferred struct {
	done chan struct{}
	conn client.Connection
	err  error
}

// newDeferred creates an unresolved Deferred.
func newDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// resolve completes the Deferred with a connection or an error.
// Calling resolve more than once is a programming error and panics on the
// closed channel.
func (d *Deferred) resolve(conn client.Connection, err error) {
	d.conn = conn
	d.err = err
	close(d.done)
}

// Await blocks until the connection attempt finishes or ctx is done.
// On ctx expiry the attempt keeps running in the background; the caller just
// stops waiting for it.
func (d *Deferred) Await(ctx context.Context) (client.Connection, error) {
	select {
	case <-d.done:
		return d.conn, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel closed once the attempt has finished, for callers
// that want to select over several pending connections.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}
