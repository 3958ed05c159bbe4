package model

import (
	"strconv"
	"strings"

	"github.com/gogf/gf/v2/text/gregex"
	"github.com/gogf/gf/v2/text/gstr"
)

// Kind groups MySQL column types that share attributes.
type Kind int

const (
	KindGeneric Kind = iota
	KindNumeric
	KindText
	KindUpdatableTime
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindUpdatableTime:
		return "updatable-time"
	case KindTimestamp:
		return "timestamp"
	default:
		return "generic"
	}
}

var kindMap = map[string]Kind{
	"tinyint":    KindNumeric,
	"smallint":   KindNumeric,
	"mediumint":  KindNumeric,
	"int":        KindNumeric,
	"bigint":     KindNumeric,
	"decimal":    KindNumeric,
	"float":      KindNumeric,
	"double":     KindNumeric,
	"char":       KindText,
	"varchar":    KindText,
	"tinytext":   KindText,
	"text":       KindText,
	"mediumtext": KindText,
	"longtext":   KindText,
	"enum":       KindText,
	"set":        KindText,
	"datetime":   KindUpdatableTime,
	"timestamp":  KindTimestamp,
}

// type aliases accepted in declarations, mapped to what MySQL reports
var typeAliases = map[string]string{
	"integer": "int",
	"dec":     "decimal",
	"numeric": "decimal",
	"fixed":   "decimal",
	"real":    "double",
	"bool":    "tinyint",
	"boolean": "tinyint",
}

var spatialTypes = map[string]bool{
	"geometry":           true,
	"point":              true,
	"linestring":         true,
	"polygon":            true,
	"multipoint":         true,
	"multilinestring":    true,
	"multipolygon":       true,
	"geometrycollection": true,
}

// KindOf classifies a lower-case base type.
func KindOf(baseType string) Kind {
	return kindMap[baseType]
}

// IsSpatialType reports whether baseType is one of the geometry types.
func IsSpatialType(baseType string) bool {
	return spatialTypes[baseType]
}

// ParseType splits a type declaration such as "varchar(32)",
// "decimal(10, 2) unsigned" or "enum('a','b')" into its base type, length
// specification and whatever follows. Values inside the parentheses must not
// contain ')'.
func ParseType(s string) (baseType, length, rest string, ok bool) {
	match, err := gregex.MatchString(`^\s*([A-Za-z]+)\s*(?:\(([^)]*)\))?\s*(.*)$`, s)
	if err != nil || len(match) == 0 {
		return "", "", "", false
	}
	baseType = gstr.ToLower(match[1])
	length = match[2]
	if alias, exists := typeAliases[baseType]; exists {
		if baseType == "bool" || baseType == "boolean" {
			length = "1"
		}
		baseType = alias
	}
	if baseType != "enum" && baseType != "set" {
		length = strings.ReplaceAll(length, " ", "")
	}
	return baseType, length, gstr.Trim(match[3]), true
}

func lengthOf(values ...int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

func valueList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = QuoteLiteral(v)
	}
	return strings.Join(quoted, ",")
}

// NewColumn starts a column of an arbitrary base type. length may be empty.
func NewColumn(name, baseType, length string) *ColumnBuilder {
	baseType = gstr.ToLower(gstr.Trim(baseType))
	if alias, exists := typeAliases[baseType]; exists {
		if baseType == "bool" || baseType == "boolean" {
			length = "1"
		}
		baseType = alias
	}
	return &ColumnBuilder{col: Column{
		Name:   name,
		Kind:   KindOf(baseType),
		Type:   baseType,
		Length: length,
	}}
}

// ColumnOf starts a column from a full type declaration such as
// "varchar(64)" or "int unsigned".
func ColumnOf(name, typeSQL string) *ColumnBuilder {
	baseType, length, rest, ok := ParseType(typeSQL)
	if !ok {
		b := &ColumnBuilder{col: Column{Name: name}}
		b.fail("cannot parse column type %q", typeSQL)
		return b
	}
	b := NewColumn(name, baseType, length)
	rest = gstr.ToLower(rest)
	if gstr.Contains(rest, "unsigned") {
		b.Unsigned()
	}
	if gstr.Contains(rest, "zerofill") {
		b.Zerofill()
	}
	return b
}

func TinyInt(name string, width ...int) *ColumnBuilder {
	return NewColumn(name, "tinyint", lengthOf(width...))
}

func SmallInt(name string, width ...int) *ColumnBuilder {
	return NewColumn(name, "smallint", lengthOf(width...))
}

func MediumInt(name string, width ...int) *ColumnBuilder {
	return NewColumn(name, "mediumint", lengthOf(width...))
}

func Int(name string, width ...int) *ColumnBuilder {
	return NewColumn(name, "int", lengthOf(width...))
}

func BigInt(name string, width ...int) *ColumnBuilder {
	return NewColumn(name, "bigint", lengthOf(width...))
}

// Bool is tinyint(1), which is how MySQL stores BOOLEAN.
func Bool(name string) *ColumnBuilder {
	return NewColumn(name, "tinyint", "1")
}

// Decimal takes an optional precision and scale.
func Decimal(name string, precisionScale ...int) *ColumnBuilder {
	return NewColumn(name, "decimal", lengthOf(precisionScale...))
}

func Float(name string, precisionScale ...int) *ColumnBuilder {
	return NewColumn(name, "float", lengthOf(precisionScale...))
}

func Double(name string, precisionScale ...int) *ColumnBuilder {
	return NewColumn(name, "double", lengthOf(precisionScale...))
}

func Bit(name string, length ...int) *ColumnBuilder {
	return NewColumn(name, "bit", lengthOf(length...))
}

func Char(name string, length ...int) *ColumnBuilder {
	return NewColumn(name, "char", lengthOf(length...))
}

func VarChar(name string, length int) *ColumnBuilder {
	return NewColumn(name, "varchar", lengthOf(length))
}

func TinyText(name string) *ColumnBuilder {
	return NewColumn(name, "tinytext", "")
}

func Text(name string) *ColumnBuilder {
	return NewColumn(name, "text", "")
}

func MediumText(name string) *ColumnBuilder {
	return NewColumn(name, "mediumtext", "")
}

func LongText(name string) *ColumnBuilder {
	return NewColumn(name, "longtext", "")
}

func Enum(name string, values ...string) *ColumnBuilder {
	return NewColumn(name, "enum", valueList(values))
}

func Set(name string, values ...string) *ColumnBuilder {
	return NewColumn(name, "set", valueList(values))
}

func Binary(name string, length ...int) *ColumnBuilder {
	return NewColumn(name, "binary", lengthOf(length...))
}

func VarBinary(name string, length int) *ColumnBuilder {
	return NewColumn(name, "varbinary", lengthOf(length))
}

func TinyBlob(name string) *ColumnBuilder {
	return NewColumn(name, "tinyblob", "")
}

func Blob(name string) *ColumnBuilder {
	return NewColumn(name, "blob", "")
}

func MediumBlob(name string) *ColumnBuilder {
	return NewColumn(name, "mediumblob", "")
}

func LongBlob(name string) *ColumnBuilder {
	return NewColumn(name, "longblob", "")
}

func JSON(name string) *ColumnBuilder {
	return NewColumn(name, "json", "")
}

func Date(name string) *ColumnBuilder {
	return NewColumn(name, "date", "")
}

// Time takes optional fractional seconds precision.
func Time(name string, fsp ...int) *ColumnBuilder {
	return NewColumn(name, "time", lengthOf(fsp...))
}

func Year(name string) *ColumnBuilder {
	return NewColumn(name, "year", "")
}

func DateTime(name string, fsp ...int) *ColumnBuilder {
	return NewColumn(name, "datetime", lengthOf(fsp...))
}

// Timestamp columns are nullable with no default until NotNull is called.
func Timestamp(name string, fsp ...int) *ColumnBuilder {
	return NewColumn(name, "timestamp", lengthOf(fsp...))
}

func Geometry(name string) *ColumnBuilder {
	return NewColumn(name, "geometry", "")
}

func Point(name string) *ColumnBuilder {
	return NewColumn(name, "point", "")
}

func LineString(name string) *ColumnBuilder {
	return NewColumn(name, "linestring", "")
}

func Polygon(name string) *ColumnBuilder {
	return NewColumn(name, "polygon", "")
}

func MultiPoint(name string) *ColumnBuilder {
	return NewColumn(name, "multipoint", "")
}

func MultiLineString(name string) *ColumnBuilder {
	return NewColumn(name, "multilinestring", "")
}

func MultiPolygon(name string) *ColumnBuilder {
	return NewColumn(name, "multipolygon", "")
}

func GeometryCollection(name string) *ColumnBuilder {
	return NewColumn(name, "geometrycollection", "")
}
