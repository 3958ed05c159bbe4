package mysql

import (
	"context"
	"strings"

	"github.com/glennliao/schema-sync/database"
	"github.com/glennliao/schema-sync/model"
	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
)

func init() {
	database.RegDatabase("mysql", &Mysql{})
	database.RegDatabase("mariadb", &Mysql{})
}

type Mysql struct {
}

// LoadTable checks whether the table exists and, if so, parses its DDL.
func (d *Mysql) LoadTable(ctx context.Context, exec database.Executor, table string) (*model.Schema, error) {
	exists, err := d.tableExists(ctx, exec, table)
	if err != nil || !exists {
		return nil, err
	}

	result, err := exec.Query(ctx, "SHOW CREATE TABLE "+model.QuoteIdentifier(table))
	if err != nil {
		return nil, err
	}
	if len(result) == 0 || result[0]["Create Table"] == nil {
		return nil, gerror.NewCodef(gcode.CodeDbOperationError, "SHOW CREATE TABLE %s returned no definition", table)
	}
	return ParseCreateTable(result[0]["Create Table"].String())
}

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (d *Mysql) tableExists(ctx context.Context, exec database.Executor, table string) (bool, error) {
	result, err := exec.Query(ctx, "SHOW TABLES LIKE "+model.QuoteLiteral(likeReplacer.Replace(table)))
	if err != nil {
		return false, err
	}
	for _, record := range result {
		for _, v := range record {
			if strings.EqualFold(v.String(), table) {
				return true, nil
			}
		}
	}
	return false, nil
}

var typeMap = map[string]string{
	"time.Time": "datetime",
	"string":    "varchar",
	"bool":      "tinyint(1)",
	"int8":      "tinyint",
	"uint8":     "tinyint unsigned",
	"int16":     "smallint",
	"uint16":    "smallint unsigned",
	"int":       "int",
	"uint":      "int unsigned",
	"int32":     "int",
	"uint32":    "int unsigned",
	"int64":     "bigint",
	"uint64":    "bigint unsigned",
	"float32":   "float",
	"float64":   "double",
	"[]byte":    "blob",
	"[]uint8":   "blob",
}

// GetSqlType maps a Go type name to a column type. size applies to strings.
func (d *Mysql) GetSqlType(ctx context.Context, goType string, size string) string {
	if size == "" {
		size = "255"
	}

	goType = strings.TrimLeft(goType, "*")

	if v, exists := typeMap[goType]; exists {
		if goType == "string" {
			return v + "(" + size + ")"
		}
		return v
	}

	return goType
}
