// Package catalog stores named ephemeris tracks in a sqlite database so scenes
// can refer to a body by name instead of a file.
package catalog

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/ephemeris"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const insertBatchSize = 2000

type Body struct {
	gorm.Model
	Name    string `gorm:"size:64;uniqueIndex"`
	Samples []Sample
}

type Sample struct {
	ID     uint    `gorm:"primarykey"`
	BodyID uint    `gorm:"index:idx_sample_body_seq,priority:1"`
	Seq    int     `gorm:"index:idx_sample_body_seq,priority:2"`
	Hours  float64
	X      float64
	Y      float64
	Z      float64
}

type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite file at path, creating it and the schema when
// missing. An empty path opens a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        insertBatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, core.NewResourceError("catalog "+path, err)
	}
	if path == "" {
		// every pooled connection would otherwise get its own empty memory db
		sqlDB, err := db.DB()
		if err != nil {
			return nil, core.NewResourceError("catalog", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&Body{}, &Sample{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	core.LogDebug("opened ephemeris catalog at '%s'", dsn)
	return &Store{db: db}, nil
}

// Import replaces the samples stored under name. Samples are validated as a
// track first, so a catalog never holds a track NewTrack would reject.
func (s *Store) Import(name string, samples []ephemeris.Sample) error {
	if name == "" {
		return core.NewConfigurationError("catalog", "body name is required")
	}
	if _, err := ephemeris.NewTrack(samples); err != nil {
		return fmt.Errorf("failed to import '%s': %w", name, err)
	}

	rows := make([]Sample, len(samples))
	for i, smp := range samples {
		rows[i] = Sample{Seq: i, Hours: smp.Time, X: smp.X, Y: smp.Y, Z: smp.Z}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing Body
		err := tx.Unscoped().Where("name = ?", name).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("body_id = ?", existing.ID).Delete(&Sample{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&existing).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		body := Body{Name: name}
		if err := tx.Create(&body).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].BodyID = body.ID
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to import '%s': %w", name, err)
	}
	core.LogInfo("imported %d samples for '%s' into catalog", len(rows), name)
	return nil
}

// Track loads the samples stored under name.
func (s *Store) Track(name string) (*ephemeris.Track, error) {
	var body Body
	err := s.db.Where("name = ?", name).First(&body).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.NewNotFoundError("catalog body", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up '%s': %w", name, err)
	}

	var rows []Sample
	if err := s.db.Where("body_id = ?", body.ID).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read samples of '%s': %w", name, err)
	}
	samples := make([]ephemeris.Sample, len(rows))
	for i, r := range rows {
		samples[i] = ephemeris.Sample{Time: r.Hours, X: r.X, Y: r.Y, Z: r.Z}
	}
	return ephemeris.NewTrack(samples)
}

// Bodies lists the stored names alphabetically.
func (s *Store) Bodies() ([]string, error) {
	var names []string
	if err := s.db.Model(&Body{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Store) Remove(name string) error {
	var body Body
	err := s.db.Where("name = ?", name).First(&body).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.NewNotFoundError("catalog body", name)
	}
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("body_id = ?", body.ID).Delete(&Sample{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&body).Error
	})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
