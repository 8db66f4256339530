package postgres

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/infrastructure/postgres/generated"
	"github.com/iho/settleledger/internal/usecase"
)

// AuditRepository implements audit log persistence
type AuditRepository struct {
	db generated.DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

const insertAuditLog = `
	INSERT INTO audit_logs (
		id, user_id, action, resource_type, resource_id, request_id,
		before_state, after_state, status, error_message, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

// CreateTx inserts an audit log entry in the caller's transaction, so the
// record commits or rolls back with the change it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	beforeStateJSON, err := marshalState(log.BeforeState)
	if err != nil {
		return err
	}
	afterStateJSON, err := marshalState(log.AfterState)
	if err != nil {
		return err
	}

	_, err = tx.(*Tx).PgxTx().Exec(ctx, insertAuditLog,
		log.ID,
		log.UserID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		beforeStateJSON,
		afterStateJSON,
		log.Status,
		log.ErrorMessage,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

func marshalState(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}

	return json.Marshal(state)
}

// List retrieves audit logs with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query, args := buildAuditQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var beforeStateJSON, afterStateJSON []byte

		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&beforeStateJSON,
			&afterStateJSON,
			&log.Status,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if beforeStateJSON != nil {
			_ = json.Unmarshal(beforeStateJSON, &log.BeforeState)
		}

		if afterStateJSON != nil {
			_ = json.Unmarshal(afterStateJSON, &log.AfterState)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func buildAuditQuery(filter domain.AuditFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT id, user_id, action, resource_type, resource_id, request_id,
		before_state, after_state, status, error_message, created_at
		FROM audit_logs WHERE 1=1`)

	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		b.WriteString(" " + clause + " $" + strconv.Itoa(len(args)))
	}

	if filter.UserID != "" {
		add("AND user_id =", filter.UserID)
	}
	if filter.Action != "" {
		add("AND action =", filter.Action)
	}
	if filter.ResourceType != "" {
		add("AND resource_type =", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		add("AND resource_id =", filter.ResourceID)
	}
	if filter.StartDate != nil {
		add("AND created_at >=", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("AND created_at <", *filter.EndDate)
	}

	b.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		add("LIMIT", filter.Limit)
	}
	if filter.Offset > 0 {
		add("OFFSET", filter.Offset)
	}

	return b.String(), args
}
