package graph

import "context"

// AccessMode selects whether a session may write.
type AccessMode int

const (
	AccessModeRead AccessMode = iota
	AccessModeWrite
)

func (m AccessMode) String() string {
	if m == AccessModeWrite {
		return "write"
	}
	return "read"
}

// Record is one result row keyed by column name.
type Record = map[string]any

// Driver opens sessions against a graph store. Implementations own
// connection pooling and authentication.
type Driver interface {
	NewSession(ctx context.Context, mode AccessMode) Session
}

// Session is a unit of work against the store. Callers must Close it.
type Session interface {
	ExecuteWrite(ctx context.Context, work TxWork) (any, error)
	ExecuteRead(ctx context.Context, work TxWork) (any, error)
	Close(ctx context.Context) error
}

// Tx runs statements inside a managed transaction.
type Tx interface {
	Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error)
}

// TxWork is the body of a managed transaction.
type TxWork func(ctx context.Context, tx Tx) (any, error)
