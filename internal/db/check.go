package db

import (
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LogSchema dumps the columns and indexes of the given tables. Used at startup in dev mode.
func LogSchema(conn *gorm.DB, tables ...string) {
	for _, table := range tables {
		logTableStructure(conn, table)
		logTableIndexes(conn, table)
	}
}

func logTableStructure(conn *gorm.DB, table string) {
	var result []struct {
		ColumnName string
		DataType   string
	}

	err := conn.Raw("SELECT column_name, data_type FROM information_schema.columns WHERE table_name = ?", table).
		Scan(&result).Error
	if err != nil {
		logging.Error("Error getting table structure", zap.String("table", table), zap.Error(err))
		return
	}

	for _, col := range result {
		logging.Debug("Column info", zap.String("table", table), zap.String("column", col.ColumnName), zap.String("type", col.DataType))
	}
}

func logTableIndexes(conn *gorm.DB, table string) {
	var result []struct {
		IndexName string
		IndexDef  string
	}

	if err := conn.Raw("SELECT indexname, indexdef FROM pg_indexes WHERE tablename = ?", table).Scan(&result).Error; err != nil {
		logging.Error("Error checking table indexes", zap.String("table", table), zap.Error(err))
		return
	}

	for _, idx := range result {
		logging.Debug("Index info", zap.String("table", table), zap.String("index", idx.IndexName), zap.String("definition", idx.IndexDef))
	}
}
