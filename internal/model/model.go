package model

import (
	"errors"
	"time"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/pkg/db"
	"github.com/thep200/gitgrade/pkg/log"
)

var ErrNotFound = errors.New("record not found")

type Model struct {
	Config    *cfg.Config  `gorm:"-" json:"-"`
	Logger    log.Logger   `gorm:"-" json:"-"`
	DB        db.Connector `gorm:"-" json:"-"`
	ID        uint         `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
