package model

import (
	"sort"
	"strconv"
	"strings"
)

// TableOptions are the options following the closing parenthesis of CREATE
// TABLE. Empty values are unspecified.
type TableOptions struct {
	Engine        string
	AutoIncrement uint64
	Charset       string
	Collate       string
	Compression   string
	RowFormat     string
}

// Render prints the options in the order SHOW CREATE TABLE uses.
func (o TableOptions) Render() string {
	var parts []string
	if o.Engine != "" {
		parts = append(parts, "ENGINE="+o.Engine)
	}
	if o.AutoIncrement > 0 {
		parts = append(parts, "AUTO_INCREMENT="+strconv.FormatUint(o.AutoIncrement, 10))
	}
	if o.Charset != "" {
		parts = append(parts, "DEFAULT CHARSET="+o.Charset)
	}
	if o.Collate != "" {
		parts = append(parts, "COLLATE="+o.Collate)
	}
	if o.Compression != "" {
		parts = append(parts, "COMPRESSION="+QuoteLiteral(o.Compression))
	}
	if o.RowFormat != "" {
		parts = append(parts, "ROW_FORMAT="+o.RowFormat)
	}
	return strings.Join(parts, " ")
}

// Schema describes one table. Desired schemas come from declarations, live
// schemas from the table's DDL; both share this shape.
type Schema struct {
	Name            string
	Columns         []*Column
	PrimaryKey      *PrimaryKey
	UniqueKeys      []*IndexKey
	Indexes         []*IndexKey
	SpatialIndexes  []*IndexKey
	FulltextIndexes []*IndexKey
	ForeignKeys     map[string]*ForeignKey
	UnknownKeys     []UnknownKey
	Options         TableOptions
}

func NewSchema(name string) *Schema {
	return &Schema{Name: name, ForeignKeys: map[string]*ForeignKey{}}
}

// Column returns the named column or nil.
func (s *Schema) Column(name string) *Column {
	for _, c := range s.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Keys returns the index-family keys of one category.
func (s *Schema) Keys(category KeyCategory) []*IndexKey {
	switch category {
	case KeyUnique:
		return s.UniqueKeys
	case KeyIndex:
		return s.Indexes
	case KeySpatial:
		return s.SpatialIndexes
	case KeyFulltext:
		return s.FulltextIndexes
	}
	return nil
}

// AddKey appends k to the list of its category unless an identical key is
// already there.
func (s *Schema) AddKey(k *IndexKey) {
	for _, existing := range s.Keys(k.Category) {
		if existing.Signature() == k.Signature() {
			return
		}
	}
	switch k.Category {
	case KeyUnique:
		s.UniqueKeys = append(s.UniqueKeys, k)
	case KeyIndex:
		s.Indexes = append(s.Indexes, k)
	case KeySpatial:
		s.SpatialIndexes = append(s.SpatialIndexes, k)
	case KeyFulltext:
		s.FulltextIndexes = append(s.FulltextIndexes, k)
	}
}

// ForeignKeyList returns the foreign keys ordered by their column key.
func (s *Schema) ForeignKeyList() []*ForeignKey {
	keys := make([]string, 0, len(s.ForeignKeys))
	for k := range s.ForeignKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	list := make([]*ForeignKey, len(keys))
	for i, k := range keys {
		list[i] = s.ForeignKeys[k]
	}
	return list
}

func (s *Schema) definitions(foreignKeys bool) []string {
	var defs []string
	for _, c := range s.Columns {
		defs = append(defs, c.Definition())
	}
	if s.PrimaryKey != nil {
		defs = append(defs, s.PrimaryKey.Render())
	}
	for _, category := range IndexCategories {
		for _, k := range s.Keys(category) {
			defs = append(defs, k.Render())
		}
	}
	if foreignKeys {
		for _, fk := range s.ForeignKeyList() {
			defs = append(defs, fk.Render())
		}
	}
	return defs
}

func (s *Schema) create(foreignKeys bool) string {
	sql := "CREATE TABLE " + QuoteIdentifier(s.Name) + " (" + strings.Join(s.definitions(foreignKeys), ", ") + ")"
	if options := s.Options.Render(); options != "" {
		sql += " " + options
	}
	return sql
}

// CreateStatement renders CREATE TABLE without foreign keys, which are
// added separately so tables may reference each other in any order.
func (s *Schema) CreateStatement() string {
	return s.create(false)
}

// Render renders the whole table including foreign key constraints, like
// SHOW CREATE TABLE.
func (s *Schema) Render() string {
	return s.create(true)
}
