package tablesync

import (
	"sort"

	"github.com/glennliao/schema-sync/model"
	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/text/gstr"
)

// Definition declares the desired structure of one table.
type Definition struct {
	Name    string
	Columns []*model.ColumnBuilder
	// PrimaryKey lists the primary key columns; a single name is a one
	// column key.
	PrimaryKey []string
	Keys       []model.KeyDecl
	// ForeignKeys maps local columns ("uid" or "a,b") to the reference.
	ForeignKeys map[string]*model.Reference

	Engine        string
	AutoIncrement uint64
	Charset       string
	Collate       string
	Compression   string
	RowFormat     string

	// MigrationStrategy overrides the pool default: safe, alter or drop.
	MigrationStrategy string
}

// Normalize turns a declaration into the canonical schema the diff engine
// works on: column key flags become table keys, foreign key shorthands are
// expanded and primary key columns become NOT NULL.
func Normalize(def *Definition) (*model.Schema, error) {
	if def.Name == "" {
		return nil, gerror.NewCode(gcode.CodeInvalidConfiguration, "table name is empty")
	}
	if len(def.Columns) == 0 {
		return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "table %s declares no columns", def.Name)
	}
	schema := model.NewSchema(def.Name)

	for _, b := range def.Columns {
		col, err := b.Build()
		if err != nil {
			return nil, gerror.Wrapf(err, "table %s", def.Name)
		}
		if schema.Column(col.Name) != nil {
			return nil, gerror.NewCodef(gcode.CodeInvalidConfiguration, "table %s declares column %s twice", def.Name, col.Name)
		}
		schema.Columns = append(schema.Columns, col)
	}

	if err := normalizePrimaryKey(schema, def.PrimaryKey); err != nil {
		return nil, err
	}

	for _, col := range schema.Columns {
		flags := []struct {
			set      bool
			category model.KeyCategory
		}{
			{col.Keys.Unique, model.KeyUnique},
			{col.Keys.Index, model.KeyIndex},
			{col.Keys.SpatialIndex, model.KeySpatial},
		}
		for _, flag := range flags {
			if !flag.set {
				continue
			}
			key, err := model.NewIndexKey(flag.category, col.Name)
			if err != nil {
				return nil, err
			}
			schema.AddKey(key)
		}
	}

	for _, decl := range def.Keys {
		key, err := model.NewIndexKey(decl.Category, decl.Parts...)
		if err != nil {
			return nil, gerror.Wrapf(err, "table %s", def.Name)
		}
		if err = requireColumns(schema, "key "+key.Name, key.Columns()); err != nil {
			return nil, err
		}
		schema.AddKey(key)
	}

	if err := normalizeForeignKeys(schema, def.ForeignKeys); err != nil {
		return nil, err
	}

	schema.Options = model.TableOptions{
		Engine:        def.Engine,
		AutoIncrement: def.AutoIncrement,
		Charset:       def.Charset,
		Collate:       def.Collate,
		Compression:   def.Compression,
		RowFormat:     def.RowFormat,
	}
	return schema, nil
}

func normalizePrimaryKey(schema *model.Schema, declared []string) error {
	columns := append([]string{}, declared...)
	for _, col := range schema.Columns {
		if col.Keys.PrimaryKey && !containsString(columns, col.Name) {
			columns = append(columns, col.Name)
		}
	}
	if len(columns) == 0 {
		return nil
	}
	if err := requireColumns(schema, "primary key", columns); err != nil {
		return err
	}
	pk, err := model.NewPrimaryKey(columns...)
	if err != nil {
		return err
	}
	for _, name := range columns {
		schema.Column(name).SetNotNull()
	}
	schema.PrimaryKey = pk
	return nil
}

func normalizeForeignKeys(schema *model.Schema, refs map[string]*model.Reference) error {
	declared := make([]string, 0, len(refs))
	for k := range refs {
		declared = append(declared, k)
	}
	sort.Strings(declared)

	for _, k := range declared {
		columns := gstr.SplitAndTrim(k, ",")
		fk, err := model.NewForeignKey(schema.Name, columns, refs[k])
		if err != nil {
			return gerror.Wrapf(err, "table %s", schema.Name)
		}
		if err = requireColumns(schema, "foreign key "+fk.Name, columns); err != nil {
			return err
		}
		if _, exists := schema.ForeignKeys[fk.ColumnsKey()]; exists {
			return gerror.NewCodef(gcode.CodeInvalidConfiguration, "table %s declares foreign key (%s) twice", schema.Name, fk.ColumnsKey())
		}
		schema.ForeignKeys[fk.ColumnsKey()] = fk
	}
	return nil
}

func requireColumns(schema *model.Schema, owner string, columns []string) error {
	for _, name := range columns {
		if schema.Column(name) == nil {
			return gerror.NewCodef(gcode.CodeInvalidConfiguration, "table %s: %s uses unknown column %s", schema.Name, owner, name)
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
