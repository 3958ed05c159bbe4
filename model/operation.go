package model

import (
	"sort"
)

// OperationType orders operations: lower values run first.
type OperationType int

const (
	DropForeignKey OperationType = iota
	DropKey
	DropTable
	CreateTable
	DropColumn
	ModifyTableOptions
	ModifyColumn
	ChangeColumn
	AddColumn
	AddKey
	AddForeignKey
)

var operationTypeNames = [...]string{
	DropForeignKey:     "DROP_FOREIGN_KEY",
	DropKey:            "DROP_KEY",
	DropTable:          "DROP_TABLE",
	CreateTable:        "CREATE_TABLE",
	DropColumn:         "DROP_COLUMN",
	ModifyTableOptions: "MODIFY_TABLE_OPTIONS",
	ModifyColumn:       "MODIFY_COLUMN",
	ChangeColumn:       "CHANGE_COLUMN",
	AddColumn:          "ADD_COLUMN",
	AddKey:             "ADD_KEY",
	AddForeignKey:      "ADD_FOREIGN_KEY",
}

func (t OperationType) String() string {
	if t < 0 || int(t) >= len(operationTypeNames) {
		return "UNKNOWN"
	}
	return operationTypeNames[t]
}

// Operation is one DDL action. Clause holds the ALTER TABLE clause for
// operations that may be merged into a single ALTER statement.
type Operation struct {
	Type     OperationType
	Table    string
	SQL      string
	Clause   string
	Columns  []string
	Sequence int
}

// Sequence numbers operations within one sync batch.
type Sequence struct {
	next int
}

func (s *Sequence) Next() int {
	s.next++
	return s.next
}

// SortOperations orders a batch by type, then by emission order.
func SortOperations(ops []Operation) {
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].Type != ops[j].Type {
			return ops[i].Type < ops[j].Type
		}
		return ops[i].Sequence < ops[j].Sequence
	})
}
