package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tienda/internal/domain/session"
	"tienda/internal/infrastructure/persistence/mappers"
	"tienda/internal/infrastructure/persistence/models"
	"tienda/internal/shared/errors"
)

// SessionRepository is the gorm-backed session store.
type SessionRepository struct {
	db     *gorm.DB
	mapper mappers.SessionMapper
}

func NewSessionRepository(db *gorm.DB) session.Repository {
	return &SessionRepository{
		db:     db,
		mapper: mappers.NewSessionMapper(),
	}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	model := r.mapper.ToModel(s)
	if model.Version == 0 {
		model.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("session ID already exists", s.ID)
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	s.Version = model.Version
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*session.Session, error) {
	var model models.SessionModel
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("session not found", sessionID)
		}
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string, statuses ...session.Status) ([]*session.Session, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		query = query.Where("status IN ?", values)
	}

	var sessionModels []models.SessionModel
	if err := query.Order("last_activity_at DESC").Find(&sessionModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions by user ID: %w", err)
	}

	sessions := make([]*session.Session, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = r.mapper.ToDomain(&sessionModels[i])
	}
	return sessions, nil
}

// UpdateWithVersion persists the entity guarded by its optimistic version
// counter. A concurrent writer bumping the version first surfaces as a
// concurrency-conflict error so the caller can re-read and retry.
func (r *SessionRepository) UpdateWithVersion(ctx context.Context, s *session.Session) error {
	var metadata []byte
	if len(s.Metadata) > 0 {
		data, err := json.Marshal(s.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal session metadata: %w", err)
		}
		metadata = data
	}

	result := r.db.WithContext(ctx).Model(&models.SessionModel{}).
		Where("id = ? AND version = ?", s.ID, s.Version).
		Updates(map[string]any{
			"status":           string(s.Status),
			"is_trusted":       s.IsTrusted,
			"ip_address":       s.IPAddress,
			"metadata":         metadata,
			"last_activity_at": s.LastActivityAt,
			"expires_at":       s.ExpiresAt,
			"version":          s.Version + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the row is gone or someone else updated it first
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.SessionModel{}).
			Where("id = ?", s.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check session existence: %w", err)
		}
		if count == 0 {
			return errors.NewNotFoundError("session not found", s.ID)
		}
		return errors.NewConcurrencyConflictError("session was modified concurrently", s.ID)
	}

	s.Version++
	return nil
}

func (r *SessionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.SessionModel{}).
		Where("status = ? AND expires_at <= ?", string(session.StatusActive), now).
		Updates(map[string]any{
			"status":  string(session.StatusExpired),
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire due sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *SessionRepository) PurgeTerminatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?",
			[]string{string(session.StatusInvalidated), string(session.StatusExpired)}, cutoff).
		Delete(&models.SessionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge terminated sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *SessionRepository) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).Model(&models.SessionModel{}).
		Where("status = ?", string(session.StatusActive)).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active user IDs: %w", err)
	}
	return userIDs, nil
}

func (r *SessionRepository) CountByStatus(ctx context.Context) (map[session.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.SessionModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions by status: %w", err)
	}

	counts := make(map[session.Status]int64, len(rows))
	for _, row := range rows {
		counts[session.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *SessionRepository) CountActiveByDeviceType(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		DeviceType string
		Count      int64
	}
	err := r.db.WithContext(ctx).Model(&models.SessionModel{}).
		Select("device_type, COUNT(*) as count").
		Where("status = ?", string(session.StatusActive)).
		Group("device_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count active sessions by device type: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.DeviceType] = row.Count
	}
	return counts, nil
}

func (r *SessionRepository) CountTrusted(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SessionModel{}).
		Where("status = ? AND is_trusted = ?", string(session.StatusActive), true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count trusted sessions: %w", err)
	}
	return count, nil
}
