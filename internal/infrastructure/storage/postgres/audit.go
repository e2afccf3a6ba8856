package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"billfold/internal/core/id"
	"billfold/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditTrail implements audit.Trail on PostgreSQL.
// Large change payloads are zstd-compressed before insert.
type AuditTrail struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	compressThreshold int // bytes
}

var _ audit.Trail = (*AuditTrail)(nil)

// NewAuditTrail creates a new audit trail.
func NewAuditTrail(txManager *TxManager) (*AuditTrail, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	return &AuditTrail{
		txManager:         txManager,
		encoder:           encoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Record appends an audit entry. Uses the transaction from ctx when present,
// so the entry is atomic with the operation it describes.
func (t *AuditTrail) Record(ctx context.Context, entry audit.Entry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("marshal audit changes: %w", err)
	}

	var compressed []byte
	algo := CompressionNone
	if len(changes) > t.compressThreshold {
		compressed = t.encoder.EncodeAll(changes, nil)
		changes = nil
		algo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	querier := t.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		id.New(), entry.EntityType, entry.EntityID, string(entry.Action),
		changes, compressed, string(algo), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
