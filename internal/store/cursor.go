package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trade-bridge/internal/types"
)

// cursorRow is the single-row watermark table. Row id is fixed at 1.
type cursorRow struct {
	ID              uint  `gorm:"primaryKey"`
	LastProcessedID int64 `gorm:"column:last_processed_id"`
	UpdatedAt       time.Time
}

func (cursorRow) TableName() string { return "cursor" }

// deadLetterRow records an idea that was deliberately skipped.
type deadLetterRow struct {
	ID        uint  `gorm:"primaryKey;autoIncrement"`
	IdeaID    int64 `gorm:"index"`
	Symbol    string
	Action    string
	Reason    string
	CreatedAt time.Time
}

func (deadLetterRow) TableName() string { return "dead_letters" }

// CursorStore is the durable high-water mark of processed feed ids,
// backed by SQLite so the value survives restarts. The same database
// carries the dead-letter table for skipped ideas.
type CursorStore struct {
	db *gorm.DB
}

// OpenCursorStore opens (creating if needed) the cursor database at
// path. SQLite is opened with synchronous=FULL so a committed write is
// on disk before Write returns.
func OpenCursorStore(path string) (*CursorStore, error) {
	dsn := fmt.Sprintf("%s?_synchronous=FULL&_journal_mode=WAL", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open cursor db: %w", err)
	}
	if err := db.AutoMigrate(&cursorRow{}, &deadLetterRow{}); err != nil {
		return nil, fmt.Errorf("migrate cursor db: %w", err)
	}
	return &CursorStore{db: db}, nil
}

// Read returns the watermark and whether one exists yet. It never
// caches; every polling cycle sees the value currently on disk.
func (s *CursorStore) Read() (int64, bool, error) {
	var row cursorRow
	err := s.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read cursor: %w", err)
	}
	return row.LastProcessedID, true, nil
}

// Write persists id as the new watermark. The write commits before
// returning so a crash immediately after cannot lose it. Monotonicity
// is enforced here as a backstop; the coordinator only ever writes
// ascending ids.
func (s *CursorStore) Write(id int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var row cursorRow
		err := tx.First(&row, 1).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = cursorRow{ID: 1, LastProcessedID: id}
			return tx.Create(&row).Error
		case err != nil:
			return err
		}
		if id < row.LastProcessedID {
			return fmt.Errorf("cursor regression: %d < %d", id, row.LastProcessedID)
		}
		row.LastProcessedID = id
		return tx.Save(&row).Error
	})
}

// RecordDeadLetter appends a skipped idea for operator review.
func (s *CursorStore) RecordDeadLetter(idea types.TradeIdea, reason string) error {
	row := deadLetterRow{
		IdeaID: idea.ID,
		Symbol: idea.Symbol,
		Action: idea.Action,
		Reason: reason,
	}
	return s.db.Create(&row).Error
}

// DeadLetters returns the most recent skipped ideas, newest first.
func (s *CursorStore) DeadLetters(limit int) ([]types.TradeIdea, []string, error) {
	var rows []deadLetterRow
	if err := s.db.Order("id desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	ideas := make([]types.TradeIdea, len(rows))
	reasons := make([]string, len(rows))
	for i, r := range rows {
		ideas[i] = types.TradeIdea{ID: r.IdeaID, Symbol: r.Symbol, Action: r.Action}
		reasons[i] = r.Reason
	}
	return ideas, reasons, nil
}
