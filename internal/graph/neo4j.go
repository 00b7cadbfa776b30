package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v6/neo4j"
	"go.uber.org/zap"

	"github.com/booksage/kgforager/internal/logging"
)

// Neo4jDriver implements Driver using the official Neo4j Go driver.
type Neo4jDriver struct {
	driver   neo4j.Driver
	database string
	logger   *zap.Logger
}

// NewNeo4jDriver creates a Neo4j driver and verifies connectivity. An empty
// database selects the server default.
func NewNeo4jDriver(ctx context.Context, uri, user, password, database string, logger *zap.Logger) (*Neo4jDriver, error) {
	logger = logging.OrNop(logger).Named("neo4j")

	driver, err := neo4j.NewDriver(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver for %s: %w", uri, err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		if closeErr := driver.Close(ctx); closeErr != nil {
			logger.Warn("failed to close driver after connectivity check", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to verify Neo4j connectivity at %s: %w", uri, err)
	}

	logger.Info("connected", zap.String("uri", uri), zap.String("user", user))
	return &Neo4jDriver{driver: driver, database: database, logger: logger}, nil
}

// NewSession opens a Neo4j session in the given mode.
func (d *Neo4jDriver) NewSession(ctx context.Context, mode AccessMode) Session {
	return &neo4jSession{session: d.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4jAccessMode(mode),
		DatabaseName: d.database,
	})}
}

// Close closes the underlying Neo4j driver.
func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

func neo4jAccessMode(mode AccessMode) neo4j.AccessMode {
	if mode == AccessModeWrite {
		return neo4j.AccessModeWrite
	}
	return neo4j.AccessModeRead
}

var (
	_ Driver  = (*Neo4jDriver)(nil)
	_ Session = (*neo4jSession)(nil)
	_ Tx      = neo4jTx{}
)

type neo4jSession struct {
	session neo4j.Session
}

func (s *neo4jSession) ExecuteWrite(ctx context.Context, work TxWork) (any, error) {
	return s.session.ExecuteWrite(ctx, managedWork(ctx, work))
}

func (s *neo4jSession) ExecuteRead(ctx context.Context, work TxWork) (any, error) {
	return s.session.ExecuteRead(ctx, managedWork(ctx, work))
}

func (s *neo4jSession) Close(ctx context.Context) error {
	return s.session.Close(ctx)
}

func managedWork(ctx context.Context, work TxWork) neo4j.ManagedTransactionWork {
	return func(tx neo4j.ManagedTransaction) (any, error) {
		return work(ctx, neo4jTx{tx: tx})
	}
}

type neo4jTx struct {
	tx neo4j.ManagedTransaction
}

// Run executes cypher and drains the result inside the transaction.
func (t neo4jTx) Run(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	result, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(records))
	for _, record := range records {
		out = append(out, record.AsMap())
	}
	return out, nil
}
