package mappers

import (
	"encoding/json"

	"gorm.io/datatypes"

	"tienda/internal/domain/session"
	"tienda/internal/infrastructure/persistence/models"
)

// SessionMapper handles the conversion between Session domain entities and
// persistence models.
type SessionMapper interface {
	ToModel(entity *session.Session) *models.SessionModel
	ToDomain(model *models.SessionModel) *session.Session
}

type sessionMapper struct{}

// NewSessionMapper creates a new SessionMapper.
func NewSessionMapper() SessionMapper {
	return &sessionMapper{}
}

func (m *sessionMapper) ToModel(entity *session.Session) *models.SessionModel {
	if entity == nil {
		return nil
	}

	var metadata datatypes.JSON
	if len(entity.Metadata) > 0 {
		// Metadata values are plain JSON scalars and strings; a marshal
		// failure here would indicate a programming error upstream.
		if data, err := json.Marshal(entity.Metadata); err == nil {
			metadata = data
		}
	}

	return &models.SessionModel{
		ID:                entity.ID,
		UserID:            entity.UserID,
		ProviderSessionID: entity.ProviderSessionID,
		DeviceType:        entity.Device.DeviceType,
		DeviceName:        entity.Device.DeviceName,
		OS:                entity.Device.OS,
		Browser:           entity.Device.Browser,
		IPAddress:         entity.IPAddress,
		UserAgent:         entity.UserAgent,
		Status:            string(entity.Status),
		IsTrusted:         entity.IsTrusted,
		Metadata:          metadata,
		Version:           entity.Version,
		ExpiresAt:         entity.ExpiresAt,
		LastActivityAt:    entity.LastActivityAt,
		CreatedAt:         entity.CreatedAt,
	}
}

func (m *sessionMapper) ToDomain(model *models.SessionModel) *session.Session {
	if model == nil {
		return nil
	}

	var metadata map[string]any
	if len(model.Metadata) > 0 {
		_ = json.Unmarshal(model.Metadata, &metadata)
	}

	return &session.Session{
		ID:                model.ID,
		UserID:            model.UserID,
		ProviderSessionID: model.ProviderSessionID,
		Device: session.DeviceInfo{
			DeviceType: model.DeviceType,
			DeviceName: model.DeviceName,
			OS:         model.OS,
			Browser:    model.Browser,
		},
		IPAddress:      model.IPAddress,
		UserAgent:      model.UserAgent,
		Status:         session.Status(model.Status),
		IsTrusted:      model.IsTrusted,
		Metadata:       metadata,
		Version:        model.Version,
		ExpiresAt:      model.ExpiresAt,
		LastActivityAt: model.LastActivityAt,
		CreatedAt:      model.CreatedAt,
	}
}
