package model

import (
	"testing"

	"github.com/gogf/gf/v2/test/gtest"
)

func mustColumn(b *ColumnBuilder) *Column {
	col, err := b.Build()
	if err != nil {
		panic(err)
	}
	return col
}

func TestColumn_Render(t *testing.T) {
	tests := []struct {
		name    string
		builder *ColumnBuilder
		want    string
	}{
		{
			name:    "auto increment id",
			builder: Int("id").Unsigned().NotNull().PrimaryKey().AutoIncrement(),
			want:    "int unsigned NOT NULL AUTO_INCREMENT",
		},
		{
			name:    "nullable varchar",
			builder: VarChar("name", 32),
			want:    "varchar(32)",
		},
		{
			name:    "charset and literal default",
			builder: VarChar("name", 32).Charset("utf8mb4").Collate("utf8mb4_bin").NotNull().Default("it's"),
			want:    "varchar(32) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL DEFAULT 'it''s'",
		},
		{
			name:    "numeric default is quoted",
			builder: TinyInt("state").NotNull().Default(0),
			want:    "tinyint NOT NULL DEFAULT '0'",
		},
		{
			name:    "bool default",
			builder: Bool("enabled").NotNull().Default(true),
			want:    "tinyint(1) NOT NULL DEFAULT '1'",
		},
		{
			name:    "zerofill",
			builder: Int("code", 6).Zerofill(),
			want:    "int(6) unsigned zerofill",
		},
		{
			name:    "nullable timestamp",
			builder: Timestamp("deleted_at"),
			want:    "timestamp NULL",
		},
		{
			name:    "not null timestamp gets current timestamp",
			builder: Timestamp("created_at").NotNull(),
			want:    "timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP",
		},
		{
			name:    "timestamp fsp on update",
			builder: Timestamp("updated_at", 3).NotNull().OnUpdateCurrentTimestamp(),
			want:    "timestamp(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3)",
		},
		{
			name:    "zero datetime",
			builder: DateTime("at").NotNull().Default(0),
			want:    "datetime NOT NULL DEFAULT '0000-00-00 00:00:00'",
		},
		{
			name:    "null default",
			builder: VarChar("note", 10).Default(nil),
			want:    "varchar(10) DEFAULT NULL",
		},
		{
			name:    "raw default",
			builder: DateTime("at").DefaultRaw(" CURRENT_TIMESTAMP "),
			want:    "datetime DEFAULT CURRENT_TIMESTAMP",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gtest.C(t, func(t *gtest.T) {
				t.Assert(mustColumn(tt.builder).Render(), tt.want)
			})
		})
	}
}

func TestColumn_Definition(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		t.Assert(mustColumn(BigInt("id").NotNull()).Definition(), "`id` bigint NOT NULL")
	})
}

func TestColumn_PrimaryKeyForcesNotNull(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		col := mustColumn(Int("id").PrimaryKey())
		t.Assert(col.NotNull, true)
		t.Assert(col.Keys.PrimaryKey, true)
	})
}

func TestColumn_BuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *ColumnBuilder
	}{
		{"unsigned on text", VarChar("a", 1).Unsigned()},
		{"charset on int", Int("a").Charset("utf8mb4")},
		{"auto increment on datetime", DateTime("a").AutoIncrement()},
		{"on update on int", Int("a").OnUpdateCurrentTimestamp()},
		{"spatial index on int", Int("a").SpatialIndex()},
		{"empty name", Int("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gtest.C(t, func(t *gtest.T) {
				_, err := tt.builder.Build()
				t.AssertNE(err, nil)
			})
		})
	}
}

func TestColumn_Equals(t *testing.T) {
	options := TableOptions{Charset: "utf8mb4", Collate: "utf8mb4_0900_ai_ci"}
	tests := []struct {
		name  string
		a, b  *ColumnBuilder
		equal bool
	}{
		{"same", Int("a").NotNull(), Int("a").NotNull(), true},
		{"omitted length", Int("a"), Int("a", 11), true},
		{"different length", VarChar("a", 10), VarChar("a", 20), false},
		{"different type", Int("a"), BigInt("a"), false},
		{"nullability", Int("a"), Int("a").NotNull(), false},
		{"unset default is null when nullable", Int("a"), Int("a").Default(nil), true},
		{"unset default is not null when not null", Int("a").NotNull(), Int("a").NotNull().Default(nil), false},
		{"literal defaults", Int("a").Default(1), Int("a").Default("1"), true},
		{"literal case matters", VarChar("a", 5).Default("A"), VarChar("a", 5).Default("a"), false},
		{"raw default case", DateTime("a").DefaultRaw("current_timestamp"), DateTime("a").DefaultRaw("CURRENT_TIMESTAMP"), true},
		{"unsigned", Int("a"), Int("a").Unsigned(), false},
		{"auto increment", Int("a").NotNull(), Int("a").NotNull().AutoIncrement(), false},
		{"charset falls back to table", VarChar("a", 5), VarChar("a", 5).Charset("utf8mb4"), true},
		{"collate falls back to table", VarChar("a", 5), VarChar("a", 5).Collate("utf8mb4_0900_ai_ci"), true},
		{"other charset", VarChar("a", 5), VarChar("a", 5).Charset("latin1"), false},
		{"on update", DateTime("a"), DateTime("a").OnUpdateCurrentTimestamp(), false},
		{"key flags ignored", Int("a").NotNull(), Int("a").NotNull().Unique().Index(), true},
		{"rename ignored", Int("a"), Int("a").RenameFrom("b"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gtest.C(t, func(t *gtest.T) {
				a, b := mustColumn(tt.a), mustColumn(tt.b)
				t.Assert(a.Equals(b, options), tt.equal)
				t.Assert(b.Equals(a, options), tt.equal)
				t.Assert(a.Equals(a, options), true)
				t.Assert(b.Equals(b, options), true)
			})
		})
	}
}
