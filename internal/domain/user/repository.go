package user

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Контракт для внешнего хранилища записей учащихся. Реализации находятся
// в infrastructure/persistence (file, postgres, redis). Каждая запись
// сохраняется целиком: частичных обновлений и слияний не бывает.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции долговременного хранения UserData.
type Repository interface {
	// Load читает запись учащегося.
	// Возвращает shared.ErrNotFound, если записи ещё нет, и
	// shared.ErrCorruptState, если запись не удалось разобрать.
	Load(ctx context.Context, userID string) (*UserData, error)

	// Save записывает запись учащегося, полностью заменяя предыдущую.
	// Ошибки оборачиваются в shared.ErrPersistence.
	Save(ctx context.Context, userID string, data *UserData) error
}
