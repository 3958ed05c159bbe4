package model

import (
	"strings"

	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/text/gstr"
	"github.com/gogf/gf/v2/util/gconv"
)

const (
	CurrentTimestamp = "CURRENT_TIMESTAMP"
	zeroDate         = "0000-00-00 00:00:00"
)

type DefaultKind int

const (
	DefaultNone DefaultKind = iota
	DefaultLiteral
	DefaultRaw
)

// Default is a column default as it appears after the DEFAULT keyword.
// Literals are stored already quoted.
type Default struct {
	Kind DefaultKind
	SQL  string
}

// KeyFlags are key shorthands declared on a column. The normalizer folds them
// into table-level keys; they never take part in column equality.
type KeyFlags struct {
	PrimaryKey   bool
	Unique       bool
	Index        bool
	SpatialIndex bool
}

type NumericAttrs struct {
	Unsigned      bool
	Zerofill      bool
	AutoIncrement bool
}

type TextAttrs struct {
	Charset string
	Collate string
}

type TimeAttrs struct {
	OnUpdateCurrentTimestamp bool
}

// Column is one column definition. Only the attribute struct matching Kind is
// meaningful.
type Column struct {
	Name       string
	Kind       Kind
	Type       string
	Length     string
	NotNull    bool
	Default    Default
	RenameFrom string
	Keys       KeyFlags
	Numeric    NumericAttrs
	Text       TextAttrs
	Time       TimeAttrs
}

// TypeSQL is the type with its length specification, e.g. "varchar(32)".
func (c *Column) TypeSQL() string {
	if c.Length == "" {
		return c.Type
	}
	return c.Type + "(" + c.Length + ")"
}

// Nullable reports whether the column accepts NULL.
func (c *Column) Nullable() bool {
	return !c.NotNull
}

// Equals reports whether c and o define the same column body. tableOptions
// are the live table's options, used as the fallback charset and collation.
func (c *Column) Equals(o *Column, tableOptions TableOptions) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.Type != o.Type || c.Kind != o.Kind {
		return false
	}
	// the database always reports a length, declarations may omit it
	if c.Length != "" && o.Length != "" && !strings.EqualFold(c.Length, o.Length) {
		return false
	}
	if c.NotNull != o.NotNull {
		return false
	}
	if !defaultsEqual(c, o) {
		return false
	}
	switch c.Kind {
	case KindNumeric:
		return c.Numeric == o.Numeric
	case KindText:
		return strings.EqualFold(orDefault(c.Text.Charset, tableOptions.Charset), orDefault(o.Text.Charset, tableOptions.Charset)) &&
			strings.EqualFold(orDefault(c.Text.Collate, tableOptions.Collate), orDefault(o.Text.Collate, tableOptions.Collate))
	case KindUpdatableTime, KindTimestamp:
		return c.Time == o.Time
	}
	return true
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultsEqual(a, b *Column) bool {
	x, y := a.Default.SQL, b.Default.SQL
	if !a.NotNull {
		if x == "" {
			x = "NULL"
		}
		if y == "" {
			y = "NULL"
		}
	}
	if x == y {
		return true
	}
	// expressions such as CURRENT_TIMESTAMP are case-insensitive, literals are not
	if a.Default.Kind != DefaultLiteral && b.Default.Kind != DefaultLiteral {
		return strings.EqualFold(x, y)
	}
	return false
}

// Render produces the column body the way SHOW CREATE TABLE prints it.
func (c *Column) Render() string {
	parts := []string{c.TypeSQL()}
	switch c.Kind {
	case KindNumeric:
		if c.Numeric.Unsigned {
			parts = append(parts, "unsigned")
		}
		if c.Numeric.Zerofill {
			parts = append(parts, "zerofill")
		}
	case KindText:
		if c.Text.Charset != "" {
			parts = append(parts, "CHARACTER SET "+c.Text.Charset)
		}
		if c.Text.Collate != "" {
			parts = append(parts, "COLLATE "+c.Text.Collate)
		}
	case KindTimestamp:
		if !c.NotNull {
			parts = append(parts, "NULL")
		}
	}
	if c.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if c.Default.Kind != DefaultNone {
		parts = append(parts, "DEFAULT "+c.Default.SQL)
	}
	switch c.Kind {
	case KindNumeric:
		if c.Numeric.AutoIncrement {
			parts = append(parts, "AUTO_INCREMENT")
		}
	case KindUpdatableTime, KindTimestamp:
		if c.Time.OnUpdateCurrentTimestamp {
			parts = append(parts, "ON UPDATE "+c.currentTimestamp())
		}
	}
	return strings.Join(parts, " ")
}

// Definition is the quoted name followed by the rendered body.
func (c *Column) Definition() string {
	return QuoteIdentifier(c.Name) + " " + c.Render()
}

func (c *Column) currentTimestamp() string {
	if c.Length != "" && c.Length != "0" {
		return CurrentTimestamp + "(" + c.Length + ")"
	}
	return CurrentTimestamp
}

// SetNotNull makes the column NOT NULL. A timestamp without a default gets
// CURRENT_TIMESTAMP, as MySQL does.
func (c *Column) SetNotNull() {
	c.NotNull = true
	if c.Kind == KindTimestamp && c.Default.Kind == DefaultNone {
		c.Default = Default{Kind: DefaultRaw, SQL: c.currentTimestamp()}
	}
}

// ColumnBuilder declares a column fluently. Misuse is recorded and reported
// by Build.
type ColumnBuilder struct {
	col Column
	err error
}

func (b *ColumnBuilder) fail(format string, args ...interface{}) {
	if b.err == nil {
		b.err = gerror.NewCodef(gcode.CodeInvalidConfiguration, "column %s: "+format, append([]interface{}{b.col.Name}, args...)...)
	}
}

func (b *ColumnBuilder) requireKind(attr string, kinds ...Kind) bool {
	for _, k := range kinds {
		if b.col.Kind == k {
			return true
		}
	}
	b.fail("%s is not applicable to %s", attr, b.col.Type)
	return false
}

func (b *ColumnBuilder) Kind() Kind {
	return b.col.Kind
}

func (b *ColumnBuilder) NotNull() *ColumnBuilder {
	b.col.SetNotNull()
	return b
}

// Default sets a literal default. nil means NULL.
func (b *ColumnBuilder) Default(value interface{}) *ColumnBuilder {
	if value == nil {
		b.col.Default = Default{Kind: DefaultRaw, SQL: "NULL"}
		return b
	}
	if v, ok := value.(bool); ok {
		value = 0
		if v {
			value = 1
		}
	}
	s := gconv.String(value)
	if (b.col.Kind == KindTimestamp || b.col.Kind == KindUpdatableTime) && s == "0" {
		s = zeroDate
	}
	b.col.Default = Default{Kind: DefaultLiteral, SQL: QuoteLiteral(s)}
	return b
}

// DefaultRaw sets an unescaped SQL expression, e.g. CURRENT_TIMESTAMP.
func (b *ColumnBuilder) DefaultRaw(expr string) *ColumnBuilder {
	b.col.Default = Default{Kind: DefaultRaw, SQL: gstr.Trim(expr)}
	return b
}

func (b *ColumnBuilder) PrimaryKey() *ColumnBuilder {
	b.col.Keys.PrimaryKey = true
	return b.NotNull()
}

func (b *ColumnBuilder) Unique() *ColumnBuilder {
	b.col.Keys.Unique = true
	return b
}

func (b *ColumnBuilder) Index() *ColumnBuilder {
	b.col.Keys.Index = true
	return b
}

func (b *ColumnBuilder) SpatialIndex() *ColumnBuilder {
	if !IsSpatialType(b.col.Type) {
		b.fail("spatial index is not applicable to %s", b.col.Type)
	}
	b.col.Keys.SpatialIndex = true
	return b
}

// RenameFrom marks the column as the new name of an existing column.
func (b *ColumnBuilder) RenameFrom(oldName string) *ColumnBuilder {
	b.col.RenameFrom = oldName
	return b
}

func (b *ColumnBuilder) Unsigned() *ColumnBuilder {
	if b.requireKind("unsigned", KindNumeric) {
		b.col.Numeric.Unsigned = true
	}
	return b
}

// Zerofill implies unsigned, as in MySQL.
func (b *ColumnBuilder) Zerofill() *ColumnBuilder {
	if b.requireKind("zerofill", KindNumeric) {
		b.col.Numeric.Zerofill = true
		b.col.Numeric.Unsigned = true
	}
	return b
}

func (b *ColumnBuilder) AutoIncrement() *ColumnBuilder {
	if b.requireKind("auto_increment", KindNumeric) {
		b.col.Numeric.AutoIncrement = true
	}
	return b
}

func (b *ColumnBuilder) Charset(charset string) *ColumnBuilder {
	if b.requireKind("charset", KindText) {
		b.col.Text.Charset = charset
	}
	return b
}

func (b *ColumnBuilder) Collate(collation string) *ColumnBuilder {
	if b.requireKind("collate", KindText) {
		b.col.Text.Collate = collation
	}
	return b
}

func (b *ColumnBuilder) OnUpdateCurrentTimestamp() *ColumnBuilder {
	if b.requireKind("on update current_timestamp", KindUpdatableTime, KindTimestamp) {
		b.col.Time.OnUpdateCurrentTimestamp = true
	}
	return b
}

// Build returns a copy of the declared column.
func (b *ColumnBuilder) Build() (*Column, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.col.Name == "" {
		return nil, gerror.NewCode(gcode.CodeInvalidConfiguration, "column name is empty")
	}
	if b.col.Type == "" {
		return nil, gerror.NewCodef(gcode.CodeInvalidConfiguration, "column %s has no type", b.col.Name)
	}
	col := b.col
	return &col, nil
}
