package utils

import (
	"sync"

	"gorm.io/gorm"
)

var (
	dbConn *gorm.DB
	dbMu   sync.RWMutex
)

// InitDB stores the shared connection handle. Handlers that are not
// built around a controller struct reach the database through GetDB.
// Calling it again replaces the handle.
func InitDB(database *gorm.DB) {
	dbMu.Lock()
	defer dbMu.Unlock()
	dbConn = database
}

// GetDB returns the shared connection handle, or nil before InitDB.
func GetDB() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return dbConn
}
