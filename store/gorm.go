package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pdrpinto/navmesh2d/navdata"
)

// AssetGorm is one stored asset row.
type AssetGorm struct {
	Name      string    `gorm:"column:name;type:varchar(255);primaryKey"`
	Data      []byte    `gorm:"column:data;type:longblob"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (AssetGorm) TableName() string {
	return "navmesh_asset"
}

// GormStore keeps assets in a sql table through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore accepts sqlite:// and mysql:// urls.
func NewGormStore(url string) (*GormStore, error) {
	conf := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	var (
		db  *gorm.DB
		err error
	)
	switch {
	case strings.HasPrefix(url, "mysql://"):
		db, err = gorm.Open(mysql.Open(strings.TrimPrefix(url, "mysql://")), conf)
		if err != nil {
			return nil, fmt.Errorf("gorm open error: %w", err)
		}
		sqlDb, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sql db open error: %w", err)
		}
		sqlDb.SetMaxIdleConns(10)
		sqlDb.SetMaxOpenConns(100)
		sqlDb.SetConnMaxLifetime(time.Hour)
	case strings.HasPrefix(url, "sqlite://"):
		db, err = gorm.Open(sqlite.Open(strings.TrimPrefix(url, "sqlite://")), conf)
		if err != nil {
			return nil, fmt.Errorf("gorm open error: %w", err)
		}
	default:
		return nil, fmt.Errorf("not support db type, url: %v", url)
	}
	if err := db.AutoMigrate(new(AssetGorm)); err != nil {
		return nil, fmt.Errorf("auto migrate error: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Save inserts or replaces the row for name.
func (s *GormStore) Save(ctx context.Context, name string, data *navdata.NavMeshData) error {
	raw, err := navdata.Marshal(data)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&AssetGorm{Name: name, Data: raw}).Error
}

func (s *GormStore) Load(ctx context.Context, name string) (*navdata.NavMeshData, error) {
	row := new(AssetGorm)
	err := s.db.WithContext(ctx).Where("name = ?", name).First(row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(name)
		}
		return nil, err
	}
	return navdata.Unmarshal(row.Data)
}

func (s *GormStore) Close() error {
	sqlDb, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}
