// Package graph creates nodes and relationships and runs queries against a
// graph store through an injected Driver.
package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/booksage/kgforager/internal/logging"
)

var errNoRows = errors.New("statement returned no rows")

// Engine wraps a Driver with three narrow operations. Each call opens its own
// session and closes it before returning.
//
// Write failures are logged and reported only as ok == false, so a caller of
// CreateNode or CreateRelationship cannot tell why a write failed. Query, in
// contrast, logs and returns the error.
type Engine struct {
	driver Driver
	logger *zap.Logger
}

// NewEngine creates an engine over driver. A nil logger disables logging.
func NewEngine(driver Driver, logger *zap.Logger) *Engine {
	return &Engine{
		driver: driver,
		logger: logging.OrNop(logger).Named("graph"),
	}
}

// CreateNode creates a node with the given label and properties and returns
// the id the store assigned. ok is false if the store rejected the write.
func (e *Engine) CreateNode(ctx context.Context, label string, properties map[string]any) (id int64, ok bool) {
	if properties == nil {
		properties = map[string]any{}
	}

	cypher := fmt.Sprintf("CREATE (n:%s $props) RETURN id(n) AS id", quoteIdentifier(label))
	id, err := e.writeID(ctx, cypher, map[string]any{"props": properties})
	if err != nil {
		e.logger.Error("failed to create node",
			zap.String("label", label),
			zap.Error(err),
		)
		return 0, false
	}

	e.logger.Info("created node",
		zap.String("label", label),
		zap.Int64("id", id),
	)
	return id, true
}

// CreateRelationship links startID to endID with a relationship of relType.
// Whether both nodes exist is left to the store; a missing node surfaces as
// ok == false.
func (e *Engine) CreateRelationship(ctx context.Context, startID, endID int64, relType string) (id int64, ok bool) {
	cypher := fmt.Sprintf(
		"MATCH (a), (b) WHERE id(a) = $start AND id(b) = $end CREATE (a)-[r:%s]->(b) RETURN id(r) AS id",
		quoteIdentifier(relType),
	)
	id, err := e.writeID(ctx, cypher, map[string]any{"start": startID, "end": endID})
	if err != nil {
		e.logger.Error("failed to create relationship",
			zap.String("type", relType),
			zap.Int64("start", startID),
			zap.Int64("end", endID),
			zap.Error(err),
		)
		return 0, false
	}

	e.logger.Info("created relationship",
		zap.String("type", relType),
		zap.Int64("start", startID),
		zap.Int64("end", endID),
		zap.Int64("id", id),
	)
	return id, true
}

// Query runs cypher with params in a read session and returns every row.
// Store errors are logged and returned wrapped.
func (e *Engine) Query(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	session := e.driver.NewSession(ctx, AccessModeRead)
	defer e.closeSession(ctx, session)

	out, err := session.ExecuteRead(ctx, func(ctx context.Context, tx Tx) (any, error) {
		return tx.Run(ctx, cypher, params)
	})
	if err != nil {
		e.logger.Error("query failed",
			zap.String("cypher", cypher),
			zap.Error(err),
		)
		return nil, fmt.Errorf("graph query failed: %w", err)
	}

	records, _ := out.([]Record)
	e.logger.Debug("query complete", zap.Int("records", len(records)))
	return records, nil
}

func (e *Engine) writeID(ctx context.Context, cypher string, params map[string]any) (int64, error) {
	session := e.driver.NewSession(ctx, AccessModeWrite)
	defer e.closeSession(ctx, session)

	out, err := session.ExecuteWrite(ctx, func(ctx context.Context, tx Tx) (any, error) {
		records, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, errNoRows
		}
		return records[0]["id"], nil
	})
	if err != nil {
		return 0, err
	}

	id, ok := out.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected id type %T", out)
	}
	return id, nil
}

func (e *Engine) closeSession(ctx context.Context, session Session) {
	if err := session.Close(ctx); err != nil {
		e.logger.Warn("failed to close session", zap.Error(err))
	}
}

// quoteIdentifier backtick-quotes a label or relationship type, which cannot
// be passed as a query parameter.
func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
