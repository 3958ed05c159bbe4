package model

import (
	"testing"

	"github.com/gogf/gf/v2/test/gtest"
)

func TestOperationType_String(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		t.Assert(DropForeignKey.String(), "DROP_FOREIGN_KEY")
		t.Assert(AddForeignKey.String(), "ADD_FOREIGN_KEY")
		t.Assert(OperationType(100).String(), "UNKNOWN")
	})
}

func TestSortOperations(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		seq := &Sequence{}
		ops := []Operation{
			{Type: AddForeignKey, Table: "a", Sequence: seq.Next()},
			{Type: CreateTable, Table: "a", Sequence: seq.Next()},
			{Type: DropTable, Table: "b", Sequence: seq.Next()},
			{Type: DropForeignKey, Table: "b", Sequence: seq.Next()},
			{Type: CreateTable, Table: "b", Sequence: seq.Next()},
			{Type: AddForeignKey, Table: "b", Sequence: seq.Next()},
			{Type: DropForeignKey, Table: "c", Sequence: seq.Next()},
		}
		SortOperations(ops)

		var order []string
		for _, op := range ops {
			order = append(order, op.Type.String()+":"+op.Table)
		}
		t.Assert(order, []string{
			"DROP_FOREIGN_KEY:b",
			"DROP_FOREIGN_KEY:c",
			"DROP_TABLE:b",
			"CREATE_TABLE:a",
			"CREATE_TABLE:b",
			"ADD_FOREIGN_KEY:a",
			"ADD_FOREIGN_KEY:b",
		})
	})
}

func TestOperationType_Order(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		order := []OperationType{
			DropForeignKey, DropKey, DropTable, CreateTable, DropColumn, ModifyTableOptions,
			ModifyColumn, ChangeColumn, AddColumn, AddKey, AddForeignKey,
		}
		for i := 1; i < len(order); i++ {
			t.Assert(order[i-1] < order[i], true)
		}
	})
}
