// Package store wraps the relational persistence behind the console.
// Every store tolerates an unavailable database: methods check availability
// first and return neutral values (nil, empty, false) instead of erroring,
// so the rest of the service keeps operating in a degraded mode.
package store

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type base struct {
	db  *gorm.DB
	log *logrus.Entry
}

// available reports whether the backing database can be used.
func (b *base) available() bool {
	if b.db == nil {
		b.log.Warn("Database not available")
		return false
	}
	return true
}
