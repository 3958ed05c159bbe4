package tablesync

import (
	"sort"
	"strconv"
	"strings"

	"github.com/glennliao/schema-sync/model"
	"github.com/gogf/gf/v2/container/gset"
)

// Diff computes the operations that bring live to desired. live is nil when
// the table does not exist. Operations are numbered from seq, which is shared
// by every table of one sync batch.
func Diff(desired, live *model.Schema, strategy Strategy, seq *model.Sequence) []model.Operation {
	p := &planner{desired: desired, live: live, seq: seq, table: model.QuoteIdentifier(desired.Name)}

	switch {
	case live == nil:
		p.create()
	case strategy == Drop:
		for _, fk := range live.ForeignKeyList() {
			p.dropForeignKey(fk)
		}
		p.add(model.Operation{Type: model.DropTable, SQL: "DROP TABLE " + p.table})
		p.create()
	case strategy == Alter:
		p.columns()
		p.primaryKey()
		p.keys()
		p.foreignKeys()
		p.options()
	}
	return mergeAlterClauses(p.ops)
}

type planner struct {
	desired *model.Schema
	live    *model.Schema
	seq     *model.Sequence
	table   string
	ops     []model.Operation
	// renamed maps live column names to the desired names they become.
	renamed map[string]string
}

func (p *planner) add(op model.Operation) {
	op.Table = p.desired.Name
	op.Sequence = p.seq.Next()
	p.ops = append(p.ops, op)
}

// alter adds an operation expressed as one ALTER TABLE clause.
func (p *planner) alter(typ model.OperationType, clause string, columns ...string) {
	p.add(model.Operation{
		Type:    typ,
		SQL:     "ALTER TABLE " + p.table + " " + clause,
		Clause:  clause,
		Columns: columns,
	})
}

func (p *planner) create() {
	p.add(model.Operation{
		Type:    model.CreateTable,
		SQL:     p.desired.CreateStatement(),
		Columns: p.desired.ColumnNames(),
	})
	for _, fk := range p.desired.ForeignKeyList() {
		p.addForeignKey(fk)
	}
}

func (p *planner) addForeignKey(fk *model.ForeignKey) {
	p.add(model.Operation{
		Type:    model.AddForeignKey,
		SQL:     "ALTER TABLE " + p.table + " ADD " + fk.Render(),
		Columns: fk.Columns,
	})
}

func (p *planner) dropForeignKey(fk *model.ForeignKey) {
	p.add(model.Operation{
		Type:    model.DropForeignKey,
		SQL:     "ALTER TABLE " + p.table + " DROP FOREIGN KEY " + model.QuoteIdentifier(fk.Name),
		Columns: fk.Columns,
	})
}

func (p *planner) columns() {
	p.renamed = map[string]string{}
	consumed := map[string]bool{}
	position := "FIRST"

	for _, col := range p.desired.Columns {
		var match *model.Column
		if col.RenameFrom != "" && !consumed[col.RenameFrom] {
			match = p.live.Column(col.RenameFrom)
		}
		if match == nil && !consumed[col.Name] {
			match = p.live.Column(col.Name)
		}

		switch {
		case match == nil:
			p.alter(model.AddColumn, "ADD COLUMN "+col.Definition()+" "+position, col.Name)
		case match.Name != col.Name:
			p.renamed[match.Name] = col.Name
			p.alter(model.ChangeColumn, "CHANGE COLUMN "+model.QuoteIdentifier(match.Name)+" "+col.Definition(), match.Name, col.Name)
		case !col.Equals(match, p.live.Options):
			p.alter(model.ModifyColumn, "MODIFY COLUMN "+col.Definition(), col.Name)
		}
		if match != nil {
			consumed[match.Name] = true
		}
		position = "AFTER " + model.QuoteIdentifier(col.Name)
	}

	for _, col := range p.live.Columns {
		if !consumed[col.Name] {
			p.alter(model.DropColumn, "DROP COLUMN "+model.QuoteIdentifier(col.Name), col.Name)
		}
	}
}

// primaryKey compares the key after applying column renames, which MySQL
// carries into the key itself.
func (p *planner) primaryKey() {
	var live *model.PrimaryKey
	if p.live.PrimaryKey != nil {
		live = &model.PrimaryKey{}
		for _, name := range p.live.PrimaryKey.Columns {
			if to, ok := p.renamed[name]; ok {
				name = to
			}
			live.Columns = append(live.Columns, name)
		}
	}
	if p.desired.PrimaryKey.Equals(live) {
		return
	}
	if p.live.PrimaryKey != nil {
		p.alter(model.DropKey, "DROP PRIMARY KEY", p.live.PrimaryKey.Columns...)
	}
	if p.desired.PrimaryKey != nil {
		p.alter(model.AddKey, "ADD "+p.desired.PrimaryKey.Render(), p.desired.PrimaryKey.Columns...)
	}
}

func (p *planner) keys() {
	for _, category := range model.IndexCategories {
		var (
			desired     = p.desired.Keys(category)
			live        = p.live.Keys(category)
			desiredSigs = gset.NewStrSet()
			liveSigs    = gset.NewStrSet()
		)
		for _, k := range desired {
			desiredSigs.Add(k.Signature())
		}
		for _, k := range live {
			liveSigs.Add(k.Signature())
		}
		for _, k := range live {
			if !desiredSigs.Contains(k.Signature()) {
				p.alter(model.DropKey, "DROP KEY "+model.QuoteIdentifier(k.Name), k.Columns()...)
			}
		}
		for _, k := range desired {
			if !liveSigs.Contains(k.Signature()) {
				p.alter(model.AddKey, "ADD "+k.Render(), k.Columns()...)
			}
		}
	}

	for _, k := range p.live.UnknownKeys {
		p.alter(model.DropKey, "DROP KEY "+model.QuoteIdentifier(k.Name), k.Columns...)
	}
}

// foreignKeys must run after every column and key operation of the table
// is planned: a live key survives only when none of its columns is touched.
func (p *planner) foreignKeys() {
	touched := gset.NewStrSet()
	for _, op := range p.ops {
		switch op.Type {
		case model.ModifyColumn, model.ChangeColumn, model.DropKey:
			touched.Add(op.Columns...)
		}
	}

	kept := map[string]bool{}
	for _, fk := range p.live.ForeignKeyList() {
		want := p.desired.ForeignKeys[fk.ColumnsKey()]
		if want != nil && want.Equals(fk) && !touchesAny(touched, fk.Columns) {
			kept[fk.ColumnsKey()] = true
			continue
		}
		p.dropForeignKey(fk)
	}
	for _, fk := range p.desired.ForeignKeyList() {
		if !kept[fk.ColumnsKey()] {
			p.addForeignKey(fk)
		}
	}
}

func touchesAny(set *gset.StrSet, columns []string) bool {
	for _, c := range columns {
		if set.Contains(c) {
			return true
		}
	}
	return false
}

// options compares only what the definition specifies. AUTO_INCREMENT is
// only ever raised.
func (p *planner) options() {
	desired, live := p.desired.Options, p.live.Options
	changed := func(want, have string) bool {
		return want != "" && !strings.EqualFold(want, have)
	}
	if changed(desired.Engine, live.Engine) {
		p.alter(model.ModifyTableOptions, "ENGINE="+desired.Engine)
	}
	if desired.AutoIncrement > live.AutoIncrement {
		p.alter(model.ModifyTableOptions, "AUTO_INCREMENT="+strconv.FormatUint(desired.AutoIncrement, 10))
	}
	if changed(desired.Charset, live.Charset) {
		p.alter(model.ModifyTableOptions, "DEFAULT CHARSET="+desired.Charset)
	}
	if changed(desired.Collate, live.Collate) {
		p.alter(model.ModifyTableOptions, "COLLATE="+desired.Collate)
	}
	if changed(desired.Compression, live.Compression) {
		p.alter(model.ModifyTableOptions, "COMPRESSION="+model.QuoteLiteral(desired.Compression))
	}
	if changed(desired.RowFormat, live.RowFormat) {
		p.alter(model.ModifyTableOptions, "ROW_FORMAT="+desired.RowFormat)
	}
}

// mergeAlterClauses folds the clause operations of each table into a single
// ALTER TABLE. The merged operation takes the earliest type and sequence of
// its clauses so it still runs before anything that depends on them.
func mergeAlterClauses(ops []model.Operation) []model.Operation {
	var (
		merged  []model.Operation
		clauses = map[string][]model.Operation{}
		tables  []string
	)
	for _, op := range ops {
		if op.Clause == "" {
			merged = append(merged, op)
			continue
		}
		if _, ok := clauses[op.Table]; !ok {
			tables = append(tables, op.Table)
		}
		clauses[op.Table] = append(clauses[op.Table], op)
	}

	for _, table := range tables {
		group := clauses[table]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}
		model.SortOperations(group)
		var (
			parts   = make([]string, len(group))
			columns []string
			seen    = map[string]bool{}
		)
		op := model.Operation{Type: group[0].Type, Table: table, Sequence: group[0].Sequence}
		for i, g := range group {
			parts[i] = g.Clause
			if g.Sequence < op.Sequence {
				op.Sequence = g.Sequence
			}
			for _, c := range g.Columns {
				if !seen[c] {
					seen[c] = true
					columns = append(columns, c)
				}
			}
		}
		op.Clause = strings.Join(parts, ", ")
		op.SQL = "ALTER TABLE " + model.QuoteIdentifier(table) + " " + op.Clause
		op.Columns = columns
		merged = append(merged, op)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Sequence < merged[j].Sequence
	})
	return merged
}
