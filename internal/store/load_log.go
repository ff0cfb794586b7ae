package store

import (
	"database/sql"
	"fmt"
	"time"
)

// LoadLog 一次资源加载的记录
type LoadLog struct {
	ID           int64      `json:"id"`
	CycleID      string     `json:"cycleId"`
	Resource     string     `json:"resource"`
	Path         string     `json:"path"`
	Status       string     `json:"status"`
	Rows         int        `json:"rows"`
	HTTPStatus   int        `json:"httpStatus,omitempty"`
	ErrorKind    string     `json:"errorKind,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// 加载状态
const (
	LoadStatusLoading = "loading"
	LoadStatusOK      = "ok"
	LoadStatusFailed  = "failed"
)

// CreateLoadLog 创建加载日志，返回 id
func (s *Store) CreateLoadLog(cycleID, resource, path string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO load_logs (cycle_id, resource, path, status)
		VALUES (?, ?, ?, ?)
	`, cycleID, resource, path, LoadStatusLoading)
	if err != nil {
		return 0, fmt.Errorf("failed to create load log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get load log id: %w", err)
	}
	return id, nil
}

// FinishLoadLog 完成加载日志；httpStatus 为 0 表示没有 HTTP 响应
func (s *Store) FinishLoadLog(id int64, status string, rows, httpStatus int, errorKind, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE load_logs SET
			status = ?,
			rows = ?,
			http_status = ?,
			error_kind = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, rows, httpStatus, errorKind, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update load log: %w", err)
	}
	return nil
}

// RecentLoadLogs 最近的加载日志，新的在前
func (s *Store) RecentLoadLogs(limit int) ([]LoadLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, cycle_id, resource, path, status, rows, http_status, error_kind, error_message, started_at, completed_at
		FROM load_logs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load logs: %w", err)
	}
	defer rows.Close()

	logs := []LoadLog{}
	for rows.Next() {
		var l LoadLog
		var completed sql.NullTime
		if err := rows.Scan(&l.ID, &l.CycleID, &l.Resource, &l.Path, &l.Status, &l.Rows,
			&l.HTTPStatus, &l.ErrorKind, &l.ErrorMessage, &l.StartedAt, &completed); err != nil {
			return nil, err
		}
		if completed.Valid {
			t := completed.Time
			l.CompletedAt = &t
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
