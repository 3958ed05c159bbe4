package database

import (
	"context"
	"database/sql"

	"github.com/gogf/gf/v2/container/gvar"
	"github.com/gogf/gf/v2/database/gdb"
	"github.com/gogf/gf/v2/errors/gerror"
)

type gdbPool struct {
	db gdb.DB
}

// FromGdb adapts a gf database.
func FromGdb(db gdb.DB) Pool {
	return &gdbPool{db: db}
}

func (p *gdbPool) Query(ctx context.Context, statement string) (gdb.Result, error) {
	return p.db.GetAll(ctx, statement)
}

func (p *gdbPool) Exec(ctx context.Context, statement string) error {
	_, err := p.db.Exec(ctx, statement)
	return err
}

func (p *gdbPool) Conn(ctx context.Context) (Conn, error) {
	master, err := p.db.Master()
	if err != nil {
		return nil, gerror.Wrap(err, "open master connection failed")
	}
	return connOf(ctx, master)
}

type sqlPool struct {
	db *sql.DB
}

// FromSQL adapts a database/sql handle.
func FromSQL(db *sql.DB) Pool {
	return &sqlPool{db: db}
}

func (p *sqlPool) Query(ctx context.Context, statement string) (gdb.Result, error) {
	return query(ctx, p.db, statement)
}

func (p *sqlPool) Exec(ctx context.Context, statement string) error {
	_, err := p.db.ExecContext(ctx, statement)
	return err
}

func (p *sqlPool) Conn(ctx context.Context) (Conn, error) {
	return connOf(ctx, p.db)
}

type sqlConn struct {
	conn *sql.Conn
}

func connOf(ctx context.Context, db *sql.DB) (Conn, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, gerror.Wrap(err, "acquire connection failed")
	}
	return &sqlConn{conn: conn}, nil
}

func (c *sqlConn) Query(ctx context.Context, statement string) (gdb.Result, error) {
	return query(ctx, c.conn, statement)
}

func (c *sqlConn) Exec(ctx context.Context, statement string) error {
	_, err := c.conn.ExecContext(ctx, statement)
	return err
}

func (c *sqlConn) Close() error {
	return c.conn.Close()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func query(ctx context.Context, q queryer, statement string) (gdb.Result, error) {
	rows, err := q.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var result gdb.Result
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err = rows.Scan(scan...); err != nil {
			return nil, err
		}
		record := gdb.Record{}
		for i, column := range columns {
			if !values[i].Valid {
				record[column] = gvar.New(nil)
				continue
			}
			record[column] = gvar.New(values[i].String)
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
