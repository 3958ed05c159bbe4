package model

import (
	"testing"

	"github.com/gogf/gf/v2/test/gtest"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in       string
		baseType string
		length   string
		rest     string
	}{
		{"varchar(32)", "varchar", "32", ""},
		{"int unsigned", "int", "", "unsigned"},
		{"INT(10) UNSIGNED ZEROFILL", "int", "10", "UNSIGNED ZEROFILL"},
		{"decimal(10, 2)", "decimal", "10,2", ""},
		{"enum('a', 'b')", "enum", "'a', 'b'", ""},
		{"bool", "tinyint", "1", ""},
		{"integer", "int", "", ""},
		{"timestamp(3) NULL DEFAULT NULL", "timestamp", "3", "NULL DEFAULT NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			gtest.C(t, func(t *gtest.T) {
				baseType, length, rest, ok := ParseType(tt.in)
				t.Assert(ok, true)
				t.Assert(baseType, tt.baseType)
				t.Assert(length, tt.length)
				t.Assert(rest, tt.rest)
			})
		})
	}
}

func TestParseType_Invalid(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		_, _, _, ok := ParseType("(32)")
		t.Assert(ok, false)
	})
}

func TestKindOf(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		t.Assert(KindOf("bigint"), KindNumeric)
		t.Assert(KindOf("set"), KindText)
		t.Assert(KindOf("datetime"), KindUpdatableTime)
		t.Assert(KindOf("timestamp"), KindTimestamp)
		t.Assert(KindOf("json"), KindGeneric)
		t.Assert(IsSpatialType("point"), true)
		t.Assert(IsSpatialType("int"), false)
	})
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		builder *ColumnBuilder
		typeSQL string
	}{
		{"int", Int("a"), "int"},
		{"int width", Int("a", 11), "int(11)"},
		{"bool", Bool("a"), "tinyint(1)"},
		{"decimal", Decimal("a", 10, 2), "decimal(10,2)"},
		{"varchar", VarChar("a", 64), "varchar(64)"},
		{"enum", Enum("a", "x", "it's"), "enum('x','it''s')"},
		{"datetime fsp", DateTime("a", 3), "datetime(3)"},
		{"timestamp", Timestamp("a"), "timestamp"},
		{"point", Point("a"), "point"},
		{"column of", ColumnOf("a", "bigint(20) unsigned"), "bigint(20)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gtest.C(t, func(t *gtest.T) {
				col, err := tt.builder.Build()
				t.AssertNil(err)
				t.Assert(col.TypeSQL(), tt.typeSQL)
			})
		})
	}
}

func TestColumnOf_Unsigned(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		col, err := ColumnOf("a", "int unsigned zerofill").Build()
		t.AssertNil(err)
		t.Assert(col.Numeric.Unsigned, true)
		t.Assert(col.Numeric.Zerofill, true)

		_, err = ColumnOf("a", "varchar(10) unsigned").Build()
		t.AssertNE(err, nil)

		_, err = ColumnOf("a", "???").Build()
		t.AssertNE(err, nil)
	})
}
