package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MySqlStore handles session persistence using GORM
type MySqlStore struct {
	db *gorm.DB
}

// NewMySqlStore creates a new session store with GORM connection
func NewMySqlStore(databaseURL string) (*MySqlStore, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &MySqlStore{db: db}

	// Auto-migrate tables
	if err := db.AutoMigrate(&Session{}, &Turn{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return store, nil
}

// CreateSession creates a new session in the database
func (s *MySqlStore) CreateSession(ctx context.Context, owner string) (*Session, error) {
	session := &Session{
		ID:    uuid.New(),
		Owner: owner,
		Title: "New Chat",
		Turns: []Turn{},
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetSession retrieves a session by ID with its turns preloaded in order
func (s *MySqlStore) GetSession(ctx context.Context, owner string, sessionID uuid.UUID) (*Session, error) {
	var session Session
	err := s.db.WithContext(ctx).
		Preload("Turns", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		First(&session, "id = ? AND owner = ?", sessionID, owner).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// AppendTurn appends a turn to the session inside a transaction. The session
// row is locked for the duration so appends to the same session serialize
// and each caller sees a consistent history snapshot.
func (s *MySqlStore) AppendTurn(ctx context.Context, owner string, sessionID uuid.UUID, turn Turn) (*Session, error) {
	var session Session

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "id = ? AND owner = ?", sessionID, owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}

		if turn.ID == uuid.Nil {
			turn.ID = uuid.New()
		}
		turn.SessionID = sessionID
		turn.CreatedAt = time.Now().UTC()

		if err := tx.Create(&turn).Error; err != nil {
			return fmt.Errorf("failed to save turn: %w", err)
		}

		if err := tx.Model(&session).Update("updated_at", time.Now().UTC()).Error; err != nil {
			return fmt.Errorf("failed to touch session: %w", err)
		}

		var turns []Turn
		if err := tx.Where("session_id = ?", sessionID).
			Order("created_at ASC").Order("id ASC").Find(&turns).Error; err != nil {
			return fmt.Errorf("failed to query turns: %w", err)
		}
		session.Turns = turns

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// SetTitle updates the session's title
func (s *MySqlStore) SetTitle(ctx context.Context, owner string, sessionID uuid.UUID, title string) error {
	result := s.db.WithContext(ctx).Model(&Session{}).
		Where("id = ? AND owner = ?", sessionID, owner).
		Update("title", title)

	if result.Error != nil {
		return fmt.Errorf("failed to update title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ClearSession deletes the session's turns while keeping the session row
func (s *MySqlStore) ClearSession(ctx context.Context, owner string, sessionID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session Session
		if err := tx.First(&session, "id = ? AND owner = ?", sessionID, owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}

		if err := tx.Where("session_id = ?", sessionID).Delete(&Turn{}).Error; err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}

		return nil
	})
}

// DeleteSession deletes a session and its turns from the database
func (s *MySqlStore) DeleteSession(ctx context.Context, owner string, sessionID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session Session
		if err := tx.First(&session, "id = ? AND owner = ?", sessionID, owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}

		if err := tx.Where("session_id = ?", sessionID).Delete(&Turn{}).Error; err != nil {
			return fmt.Errorf("failed to delete session turns: %w", err)
		}

		if err := tx.Delete(&session).Error; err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		return nil
	})
}

// ListSessions returns the owner's session ids in creation order
func (s *MySqlStore) ListSessions(ctx context.Context, owner string) ([]uuid.UUID, error) {
	var sessions []Session
	err := s.db.WithContext(ctx).Select("id").
		Where("owner = ?", owner).
		Order("created_at ASC").Order("id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
	}
	return ids, nil
}

// ExpireIdleSessions deletes sessions whose last activity precedes the cutoff
func (s *MySqlStore) ExpireIdleSessions(ctx context.Context, cutoff time.Time) (int, error) {
	var count int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []Session
		if err := tx.Select("id").Where("updated_at < ?", cutoff).Find(&stale).Error; err != nil {
			return fmt.Errorf("failed to find idle sessions: %w", err)
		}

		for _, session := range stale {
			if err := tx.Where("session_id = ?", session.ID).Delete(&Turn{}).Error; err != nil {
				return fmt.Errorf("failed to delete session turns: %w", err)
			}
			if err := tx.Where("id = ?", session.ID).Delete(&Session{}).Error; err != nil {
				return fmt.Errorf("failed to delete session: %w", err)
			}
		}

		count = len(stale)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Close closes the database connection
func (s *MySqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}
