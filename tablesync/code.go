package tablesync

import (
	"context"

	"github.com/glennliao/schema-sync/model"
	"github.com/gogf/gf/v2/container/gvar"
	"github.com/gogf/gf/v2/os/gstructs"
	"github.com/gogf/gf/v2/text/gstr"
	"github.com/gogf/gf/v2/util/gconv"
)

const defaultCharset = "utf8mb4"

// ddl tag keys, compared lower-cased with spaces removed so "not null",
// "notNull" and "NOT NULL" are the same key.
const (
	tagName          = "name"
	tagType          = "type"
	tagSize          = "size"
	tagNotNull       = "notnull"
	tagDefault       = "default"
	tagDefaultRaw    = "defaultraw"
	tagPrimaryKey    = "primarykey"
	tagAutoIncrement = "autoincrement"
	tagUnique        = "unique"
	tagUniqueIndex   = "uniqueindex"
	tagIndex         = "index"
	tagSpatialIndex  = "spatialindex"
	tagRenameFrom    = "renamefrom"
	tagUnsigned      = "unsigned"
	tagZerofill      = "zerofill"
	tagCharset       = "charset"
	tagCollate       = "collate"
	tagOnUpdate      = "onupdate"
	tagForeignKey    = "fk"
	tagFkOnDelete    = "fkondelete"
	tagFkOnUpdate    = "fkonupdate"
	tagSkip          = "-"
)

// structDefinition builds a Definition from a struct embedding TableMeta.
// Exported fields become columns named in snake case; the ddl tag refines
// them, e.g. `ddl:"size:32;not null;index"`.
func (s *Syncer) structDefinition(table Table) (*Definition, error) {
	fields, err := fields(gstructs.FieldsInput{
		Pointer:         table,
		RecursiveOption: gstructs.RecursiveOptionEmbedded,
	})
	if err != nil {
		return nil, err
	}
	structType, err := gstructs.StructType(table)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		Name:              gstr.CaseSnake(structType.Name()),
		ForeignKeys:       map[string]*model.Reference{},
		Engine:            metaString(table, "engine"),
		Charset:           metaString(table, "charset"),
		Collate:           metaString(table, "collate"),
		RowFormat:         metaString(table, "rowFormat"),
		Compression:       metaString(table, "compression"),
		AutoIncrement:     gconv.Uint64(metaString(table, "autoIncrement")),
		MigrationStrategy: metaString(table, "migrationStrategy"),
	}
	if name := metaString(table, "tableName"); name != "" {
		def.Name = name
	}
	if def.Charset == "" {
		def.Charset = defaultCharset
	}

	// columns sharing an index name form one composite key, in field order
	var (
		groups     = map[string]*model.KeyDecl{}
		groupOrder []string
	)
	group := func(category model.KeyCategory, name, column string) {
		id := string(category) + ":" + name
		if decl, ok := groups[id]; ok {
			decl.Parts = append(decl.Parts, column)
			return
		}
		groups[id] = &model.KeyDecl{Category: category, Parts: []string{column}}
		groupOrder = append(groupOrder, id)
	}

	for _, field := range fields {
		if !field.IsExported() {
			continue
		}
		tags := parseDdlTag(field.Tag("ddl"))
		if _, skip := tags[tagSkip]; skip {
			continue
		}

		name := gstr.CaseSnake(field.Name())
		if v := tags[tagName]; v != "" {
			name = v
		}
		typeSQL := tags[tagType]
		if typeSQL == "" {
			typeSQL = s.DatabaseDriver.GetSqlType(context.Background(), field.Type().String(), tags[tagSize])
		}

		col := model.ColumnOf(name, typeSQL)
		applyColumnTags(col, tags)
		def.Columns = append(def.Columns, col)

		for _, k := range []struct {
			category model.KeyCategory
			value    string
		}{
			{model.KeyIndex, tags[tagIndex]},
			{model.KeyUnique, tags[tagUnique]},
			{model.KeyUnique, tags[tagUniqueIndex]},
		} {
			switch k.value {
			case "":
			case "true":
				if k.category == model.KeyIndex {
					col.Index()
				} else {
					col.Unique()
				}
			default:
				group(k.category, k.value, name)
			}
		}

		if ref := tags[tagForeignKey]; ref != "" {
			def.ForeignKeys[name] = model.Ref(ref).OnDelete(tags[tagFkOnDelete]).OnUpdate(tags[tagFkOnUpdate])
		}
	}

	for _, id := range groupOrder {
		def.Keys = append(def.Keys, *groups[id])
	}
	return def, nil
}

func applyColumnTags(col *model.ColumnBuilder, tags map[string]string) {
	if isSet(tags, tagNotNull) {
		col.NotNull()
	}
	if isSet(tags, tagPrimaryKey) {
		col.PrimaryKey()
		// an integer primary key is auto-incremented unless switched off
		if v, ok := tags[tagAutoIncrement]; !ok || gconv.Bool(v) {
			if col.Kind() == model.KindNumeric {
				col.AutoIncrement()
			}
		}
	} else if isSet(tags, tagAutoIncrement) {
		col.AutoIncrement()
	}
	if isSet(tags, tagUnsigned) {
		col.Unsigned()
	}
	if isSet(tags, tagZerofill) {
		col.Zerofill()
	}
	if isSet(tags, tagSpatialIndex) {
		col.SpatialIndex()
	}
	if v := tags[tagCharset]; v != "" {
		col.Charset(v)
	}
	if v := tags[tagCollate]; v != "" {
		col.Collate(v)
	}
	if isSet(tags, tagOnUpdate) {
		col.OnUpdateCurrentTimestamp()
	}
	if v := tags[tagRenameFrom]; v != "" {
		col.RenameFrom(v)
	}
	if v, ok := tags[tagDefaultRaw]; ok {
		col.DefaultRaw(v)
	} else if v, ok := tags[tagDefault]; ok {
		applyDefaultTag(col, v)
	}
}

// applyDefaultTag reads `default:'text'`, `default:0`, `default:null` and
// `default:CURRENT_TIMESTAMP`.
func applyDefaultTag(col *model.ColumnBuilder, v string) {
	v = gstr.Trim(v)
	switch {
	case len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'':
		col.Default(model.UnquoteLiteral(v))
	case gstr.Equal(v, "null"):
		col.Default(nil)
	case gstr.HasPrefix(gstr.ToUpper(v), model.CurrentTimestamp):
		col.DefaultRaw(v)
	default:
		col.Default(v)
	}
}

// isSet reports whether a flag tag is present and not explicitly false.
func isSet(tags map[string]string, key string) bool {
	v, ok := tags[key]
	return ok && gconv.Bool(v)
}

func metaString(object interface{}, key string) string {
	if v := GetTableMeta(object, key); v != nil {
		return v.String()
	}
	return ""
}

// GetTableMeta returns the tag value of the embedded TableMeta field, or nil.
func GetTableMeta(object interface{}, key string) *gvar.Var {
	tags := map[string]string{}
	reflectType, err := gstructs.StructType(object)
	if err != nil {
		return nil
	}
	if field, ok := reflectType.FieldByName("TableMeta"); ok {
		if field.Type.String() == "tablesync.TableMeta" {
			tags = gstructs.ParseTag(string(field.Tag))
		}
	}

	v, ok := tags[key]
	if !ok {
		return nil
	}
	return gvar.New(v)
}
