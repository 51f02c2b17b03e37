// Package neo4jconn opens driver connections shared by the Neo4j executors.
package neo4jconn

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rlch/moviegraph"
)

// Open creates a driver for cfg and verifies it can reach the server. The
// driver is closed again when verification fails.
func Open(ctx context.Context, cfg moviegraph.ConnectionConfig) (neo4j.DriverWithContext, error) { //nolint:ireturn
	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		if cfg.MaxConnections > 0 {
			c.MaxConnectionPoolSize = cfg.MaxConnections
		}

		if cfg.AcquisitionTimeout > 0 {
			c.ConnectionAcquisitionTimeout = cfg.AcquisitionTimeout
		}

		if cfg.MaxRetryTime > 0 {
			c.MaxTransactionRetryTime = cfg.MaxRetryTime
		}
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: create driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)

		return nil, fmt.Errorf("neo4j: connect: %w", err)
	}

	return driver, nil
}

// SessionConfig returns the session settings for one unit of work. Every
// session of an executor shares bookmarks, so a read issued after a write
// observes it even when routed to another cluster member.
func SessionConfig(cfg moviegraph.ConnectionConfig, access moviegraph.AccessMode, bookmarks neo4j.BookmarkManager) neo4j.SessionConfig {
	return neo4j.SessionConfig{
		DatabaseName:    cfg.Database,
		AccessMode:      Mode(access),
		BookmarkManager: bookmarks,
	}
}

// Mode converts an access mode to the driver's.
func Mode(access moviegraph.AccessMode) neo4j.AccessMode {
	if access == moviegraph.AccessWrite {
		return neo4j.AccessModeWrite
	}

	return neo4j.AccessModeRead
}

// Record converts a driver record into a column-keyed record. Values keep
// their driver types so graph nodes stay distinguishable from maps.
func Record(rec *neo4j.Record) moviegraph.Record {
	if rec == nil {
		return nil
	}

	out := make(moviegraph.Record, len(rec.Keys))
	for i, key := range rec.Keys {
		if i < len(rec.Values) {
			out[key] = rec.Values[i]
		}
	}

	return out
}

// Records converts a slice of driver records.
func Records(recs []*neo4j.Record) []moviegraph.Record {
	out := make([]moviegraph.Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Record(rec))
	}

	return out
}
