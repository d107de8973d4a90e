package checks

import (
	"fmt"
	"reflect"
	"strings"

	"listing-sync/core/database"
	"listing-sync/feature/listings/history"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// HistoryReport strictly types the result of a run history schema check.
type HistoryReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckHistorySchema verifies the run history table using the GORM model as the source of truth.
func CheckHistorySchema(db *gorm.DB) (*HistoryReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	model := history.SyncRun{}
	tableName := model.TableName()
	report := &HistoryReport{
		Driver:  db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Matched: true,
	}

	tblReport := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	actualCols, err := database.GetTableColumns(db, tableName)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
		report.Matched = false
		return report, nil
	}
	if len(actualCols) == 0 {
		report.Errors = append(report.Errors, fmt.Sprintf("Table %s does not exist", tableName))
		report.Matched = false
		return report, nil
	}

	actualMap := make(map[string]database.ColumnInfo)
	for _, col := range actualCols {
		actualMap[col.Field] = col
	}

	naming := schema.NamingStrategy{}
	val := reflect.TypeOf(model)
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		gormTag := field.Tag.Get("gorm")
		if gormTag == "-" {
			continue
		}

		colName := parseGormColumn(gormTag)
		if colName == "" {
			colName = naming.ColumnName(tableName, field.Name)
		}

		actCol, exists := actualMap[colName]
		if !exists {
			tblReport.MissingColumns = append(tblReport.MissingColumns, colName)
			tblReport.Status = "error"
			report.Matched = false
			continue
		}

		// Only columns with an explicit type are compared.
		if expType := strings.ToLower(parseGormType(gormTag)); expType != "" && !strings.Contains(actCol.Type, expType) {
			mismatch := fmt.Sprintf("%s: expected %s, got %s", colName, expType, actCol.Type)
			tblReport.TypeMismatches = append(tblReport.TypeMismatches, mismatch)
			tblReport.Status = "error"
			report.Matched = false
		}
	}

	report.Tables[tableName] = tblReport
	return report, nil
}

// Helpers to parse simple GORM tags
func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}

func parseGormType(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "type:") {
			return strings.TrimPrefix(p, "type:")
		}
	}
	return ""
}
