package database

import (
	"context"

	"github.com/glennliao/schema-sync/model"
	"github.com/gogf/gf/v2/database/gdb"
	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
)

// Executor runs SQL against one database.
type Executor interface {
	Query(ctx context.Context, sql string) (gdb.Result, error)
	Exec(ctx context.Context, sql string) error
}

// Conn is an Executor bound to a single connection.
type Conn interface {
	Executor
	Close() error
}

// Pool runs reads on any connection and hands out a dedicated Conn for
// writes that must run in sequence.
type Pool interface {
	Executor
	Conn(ctx context.Context) (Conn, error)
}

// Database is one database engine. LoadTable returns nil when the table
// does not exist.
type Database interface {
	LoadTable(ctx context.Context, exec Executor, table string) (*model.Schema, error)
	GetSqlType(ctx context.Context, goType string, size string) string
}

var RegMap = map[string]Database{}

func RegDatabase(name string, database Database) {
	RegMap[name] = database
}

// Get returns the Database registered for a gf database type.
func Get(name string) (Database, error) {
	if d, ok := RegMap[name]; ok {
		return d, nil
	}
	return nil, gerror.NewCodef(gcode.CodeNotSupported, "database type %q is not supported", name)
}
