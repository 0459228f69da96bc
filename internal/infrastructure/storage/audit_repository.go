package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eventd/backend/internal/domain/event"
)

// AuditRecord 审计镜像中的一行
type AuditRecord struct {
	Seq           int64
	EventID       string
	Title         string
	Description   string
	ScheduledTime time.Time
	Status        string
	LoggedAt      time.Time
}

// AuditRepository 完成事件审计的 SQLite 镜像
// 与文本日志一样只追加，同一事件可能出现多行
type AuditRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewAuditRepository 创建审计镜像仓储
func NewAuditRepository(db *sql.DB) (*AuditRepository, error) {
	if err := initAuditTable(db); err != nil {
		return nil, err
	}
	return &AuditRepository{db: db, now: time.Now}, nil
}

// initAuditTable 初始化审计表
func initAuditTable(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS event_history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		scheduled_time INTEGER NOT NULL,
		status TEXT NOT NULL,
		logged_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create event_history table: %w", err)
	}

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_event_history_event_id ON event_history(event_id);`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create event_history index: %w", err)
	}

	return nil
}

// Append 在一个事务内追加一批完成事件
func (r *AuditRepository) Append(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin audit transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO event_history
		(event_id, title, description, scheduled_time, status, logged_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare audit insert: %w", err)
	}
	defer stmt.Close()

	loggedAt := r.now().UnixMilli()
	for _, e := range events {
		if _, err := stmt.ExecContext(ctx,
			e.ID,
			e.Title,
			e.Description,
			e.ScheduledTime.UnixMilli(),
			string(e.Status),
			loggedAt,
		); err != nil {
			return fmt.Errorf("failed to insert audit record %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit records: %w", err)
	}
	return nil
}

// FindByEventID 查询某事件的全部审计记录，按写入顺序
func (r *AuditRepository) FindByEventID(ctx context.Context, eventID string) ([]*AuditRecord, error) {
	return r.query(ctx, `
		SELECT seq, event_id, title, description, scheduled_time, status, logged_at
		FROM event_history
		WHERE event_id = ?
		ORDER BY seq ASC`, eventID)
}

// FindAll 查询全部审计记录，按写入顺序
func (r *AuditRepository) FindAll(ctx context.Context) ([]*AuditRecord, error) {
	return r.query(ctx, `
		SELECT seq, event_id, title, description, scheduled_time, status, logged_at
		FROM event_history
		ORDER BY seq ASC`)
}

func (r *AuditRepository) query(ctx context.Context, query string, args ...any) ([]*AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []*AuditRecord
	for rows.Next() {
		var rec AuditRecord
		var scheduled, logged int64
		if err := rows.Scan(
			&rec.Seq,
			&rec.EventID,
			&rec.Title,
			&rec.Description,
			&scheduled,
			&rec.Status,
			&logged,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.ScheduledTime = time.UnixMilli(scheduled).UTC()
		rec.LoggedAt = time.UnixMilli(logged).UTC()
		records = append(records, &rec)
	}

	return records, rows.Err()
}
