package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gogf/gf/v2/test/gtest"
)

func TestFromSQL_Query(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		t.AssertNil(err)
		defer db.Close()

		mock.ExpectQuery("SHOW CREATE TABLE `user`").
			WillReturnRows(sqlmock.NewRows([]string{"Table", "Create Table", "Comment"}).
				AddRow("user", "CREATE TABLE `user` (`id` int)", nil))

		result, err := FromSQL(db).Query(context.Background(), "SHOW CREATE TABLE `user`")
		t.AssertNil(err)
		t.Assert(len(result), 1)
		t.Assert(result[0]["Table"].String(), "user")
		t.Assert(result[0]["Create Table"].String(), "CREATE TABLE `user` (`id` int)")
		t.Assert(result[0]["Comment"].IsNil(), true)
		t.AssertNil(mock.ExpectationsWereMet())
	})
}

func TestFromSQL_QueryError(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		t.AssertNil(err)
		defer db.Close()

		boom := errors.New("boom")
		mock.ExpectQuery("SHOW TABLES LIKE 'user'").WillReturnError(boom)

		_, err = FromSQL(db).Query(context.Background(), "SHOW TABLES LIKE 'user'")
		t.Assert(errors.Is(err, boom), true)
	})
}

func TestFromSQL_Conn(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		t.AssertNil(err)
		defer db.Close()

		mock.ExpectExec("DROP TABLE `a`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SHOW TABLES LIKE 'a'").WillReturnRows(sqlmock.NewRows([]string{"Tables_in_db (a)"}))

		ctx := context.Background()
		conn, err := FromSQL(db).Conn(ctx)
		t.AssertNil(err)
		t.AssertNil(conn.Exec(ctx, "DROP TABLE `a`"))
		result, err := conn.Query(ctx, "SHOW TABLES LIKE 'a'")
		t.AssertNil(err)
		t.Assert(len(result), 0)
		t.AssertNil(conn.Close())
		t.AssertNil(mock.ExpectationsWereMet())
	})
}
