package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v6/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeo4jAccessMode(t *testing.T) {
	assert.Equal(t, neo4j.AccessModeWrite, neo4jAccessMode(AccessModeWrite))
	assert.Equal(t, neo4j.AccessModeRead, neo4jAccessMode(AccessModeRead))
}

// recordingSession stands in for a driver session. Methods it does not
// override panic through the nil embedded interface.
type recordingSession struct {
	neo4j.Session
	calls  []string
	closed int
}

func (s *recordingSession) ExecuteWrite(ctx context.Context, work neo4j.ManagedTransactionWork, _ ...func(*neo4j.TransactionConfig)) (any, error) {
	s.calls = append(s.calls, "write")
	return work(recordingTx{})
}

func (s *recordingSession) ExecuteRead(ctx context.Context, work neo4j.ManagedTransactionWork, _ ...func(*neo4j.TransactionConfig)) (any, error) {
	s.calls = append(s.calls, "read")
	return work(recordingTx{})
}

func (s *recordingSession) Close(ctx context.Context) error {
	s.closed++
	return nil
}

var errTxRun = errors.New("run reached the driver transaction")

type recordingTx struct {
	neo4j.ManagedTransaction
}

func (recordingTx) Run(ctx context.Context, cypher string, params map[string]any) (neo4j.Result, error) {
	return nil, fmt.Errorf("%w: %s", errTxRun, cypher)
}

func TestNeo4jSession_DelegatesToDriverSession(t *testing.T) {
	ctx := context.Background()
	rs := &recordingSession{}
	s := &neo4jSession{session: rs}

	_, err := s.ExecuteWrite(ctx, func(ctx context.Context, tx Tx) (any, error) {
		return tx.Run(ctx, "CREATE (n)", nil)
	})
	assert.ErrorIs(t, err, errTxRun)
	assert.ErrorContains(t, err, "CREATE (n)")

	got, err := s.ExecuteRead(ctx, func(ctx context.Context, tx Tx) (any, error) {
		return "rows", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "rows", got)

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, []string{"write", "read"}, rs.calls)
	assert.Equal(t, 1, rs.closed)
}

func TestNewNeo4jDriver_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewNeo4jDriver(ctx, "neo4j://127.0.0.1:1", "neo4j", "pw", "", nil)
	assert.Error(t, err)
}

// TestNeo4jDriver_RoundTrip runs against a live server when
// KG_NEO4J_TEST_URI is set, e.g. neo4j://localhost:7687.
func TestNeo4jDriver_RoundTrip(t *testing.T) {
	uri := os.Getenv("KG_NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("KG_NEO4J_TEST_URI not set")
	}

	ctx := context.Background()
	driver, err := NewNeo4jDriver(ctx, uri, os.Getenv("KG_NEO4J_TEST_USER"), os.Getenv("KG_NEO4J_TEST_PASSWORD"), "", nil)
	require.NoError(t, err)
	defer driver.Close(ctx)

	engine := NewEngine(driver, nil)

	a, ok := engine.CreateNode(ctx, "KgforagerTest", map[string]any{"name": "a"})
	require.True(t, ok)
	b, ok := engine.CreateNode(ctx, "KgforagerTest", map[string]any{"name": "b"})
	require.True(t, ok)

	_, ok = engine.CreateRelationship(ctx, a, b, "LINKS_TO")
	require.True(t, ok)

	rows, err := engine.Query(ctx,
		"MATCH (x:KgforagerTest)-[:LINKS_TO]->(y) WHERE id(x) = $a RETURN y.name AS name",
		map[string]any{"a": a},
	)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0]["name"])

	session := driver.NewSession(ctx, AccessModeWrite)
	defer session.Close(ctx)
	_, err = session.ExecuteWrite(ctx, func(ctx context.Context, tx Tx) (any, error) {
		return tx.Run(ctx, "MATCH (n:KgforagerTest) DETACH DELETE n", nil)
	})
	require.NoError(t, err)
}
