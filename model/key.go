package model

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"

	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/text/gregex"
	"github.com/gogf/gf/v2/text/gstr"
)

type KeyCategory string

const (
	KeyPrimary  KeyCategory = "PRIMARY"
	KeyIndex    KeyCategory = "INDEX"
	KeyUnique   KeyCategory = "UNIQUE"
	KeySpatial  KeyCategory = "SPATIAL"
	KeyFulltext KeyCategory = "FULLTEXT"
	KeyForeign  KeyCategory = "FOREIGN"
)

// IndexCategories lists the index-family categories in the order they are
// rendered and diffed.
var IndexCategories = []KeyCategory{KeyUnique, KeyIndex, KeySpatial, KeyFulltext}

// Name prefixes of generated keys. The reverse parser relies on them to tell
// keys created here from anything else.
var keyPrefixes = map[KeyCategory]string{
	KeyIndex:    "idx_",
	KeyUnique:   "uniq_",
	KeySpatial:  "spatial_",
	KeyFulltext: "fulltext_",
	KeyForeign:  "fk_",
}

const maxIdentifierLength = 64

// DefaultKeyName derives the name of a key from its category, its columns
// and, for foreign keys, the owning table.
func DefaultKeyName(category KeyCategory, table string, columns []string) string {
	if category == KeyPrimary {
		return "PRIMARY"
	}
	name := keyPrefixes[category]
	if category == KeyForeign {
		name += table + "_"
	}
	name += strings.Join(columns, "_")
	if len(name) > maxIdentifierLength {
		sum := strconv.FormatUint(uint64(crc32.ChecksumIEEE([]byte(name))), 16)
		name = name[:maxIdentifierLength-len(sum)-1] + "_" + sum
	}
	return name
}

// KeyPart is one column of an index, optionally with a prefix length.
type KeyPart struct {
	Column string
	Length int
}

func (p KeyPart) String() string {
	if p.Length > 0 {
		return fmt.Sprintf("%s(%d)", p.Column, p.Length)
	}
	return p.Column
}

func (p KeyPart) render() string {
	if p.Length > 0 {
		return fmt.Sprintf("%s(%d)", QuoteIdentifier(p.Column), p.Length)
	}
	return QuoteIdentifier(p.Column)
}

// ParseKeyPart parses "column" or "column(prefixLength)".
func ParseKeyPart(s string) (KeyPart, error) {
	match, err := gregex.MatchString(`^\s*([^()\s]+)\s*(?:\(\s*(\d+)\s*\))?\s*$`, s)
	if err != nil || len(match) == 0 {
		return KeyPart{}, gerror.NewCodef(gcode.CodeInvalidParameter, "invalid key part %q", s)
	}
	part := KeyPart{Column: match[1]}
	if match[2] != "" {
		part.Length, _ = strconv.Atoi(match[2])
	}
	return part, nil
}

// KeyDecl is a declared index-family key before normalization.
type KeyDecl struct {
	Category KeyCategory
	Parts    []string
}

func Index(parts ...string) KeyDecl {
	return KeyDecl{Category: KeyIndex, Parts: parts}
}

func Unique(parts ...string) KeyDecl {
	return KeyDecl{Category: KeyUnique, Parts: parts}
}

func Spatial(parts ...string) KeyDecl {
	return KeyDecl{Category: KeySpatial, Parts: parts}
}

func Fulltext(parts ...string) KeyDecl {
	return KeyDecl{Category: KeyFulltext, Parts: parts}
}

// PrimaryKey is the table's primary key.
type PrimaryKey struct {
	Columns []string
}

func NewPrimaryKey(columns ...string) (*PrimaryKey, error) {
	if len(columns) == 0 {
		return nil, gerror.NewCode(gcode.CodeInvalidParameter, "primary key requires at least one column")
	}
	return &PrimaryKey{Columns: columns}, nil
}

func (k *PrimaryKey) Equals(o *PrimaryKey) bool {
	if k == nil || o == nil {
		return k == o
	}
	return equalStrings(k.Columns, o.Columns)
}

func (k *PrimaryKey) Render() string {
	return "PRIMARY KEY (" + quoteIdentifiers(k.Columns) + ")"
}

// IndexKey is an INDEX, UNIQUE, SPATIAL or FULLTEXT key.
type IndexKey struct {
	Category KeyCategory
	Name     string
	Parts    []KeyPart
}

// NewIndexKey builds an index-family key with its generated name.
func NewIndexKey(category KeyCategory, parts ...string) (*IndexKey, error) {
	if _, ok := keyPrefixes[category]; !ok || category == KeyForeign {
		return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "%s is not an index key category", category)
	}
	if len(parts) == 0 {
		return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "%s key requires at least one column", category)
	}
	key := &IndexKey{Category: category}
	for _, s := range parts {
		part, err := ParseKeyPart(s)
		if err != nil {
			return nil, err
		}
		key.Parts = append(key.Parts, part)
	}
	key.Name = DefaultKeyName(category, "", key.Columns())
	return key, nil
}

func (k *IndexKey) Columns() []string {
	columns := make([]string, len(k.Parts))
	for i, p := range k.Parts {
		columns[i] = p.Column
	}
	return columns
}

// Signature identifies the key by its ordered parts, e.g. "a,b(10)".
func (k *IndexKey) Signature() string {
	parts := make([]string, len(k.Parts))
	for i, p := range k.Parts {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

func (k *IndexKey) Equals(o *IndexKey) bool {
	if k == nil || o == nil {
		return k == o
	}
	if k.Category != o.Category || k.Name != o.Name || len(k.Parts) != len(o.Parts) {
		return false
	}
	for i := range k.Parts {
		if k.Parts[i] != o.Parts[i] {
			return false
		}
	}
	return true
}

func (k *IndexKey) Render() string {
	parts := make([]string, len(k.Parts))
	for i, p := range k.Parts {
		parts[i] = p.render()
	}
	keyword := "KEY"
	if k.Category != KeyIndex {
		keyword = string(k.Category) + " KEY"
	}
	return fmt.Sprintf("%s %s (%s)", keyword, QuoteIdentifier(k.Name), strings.Join(parts, ","))
}

// Referential actions. RESTRICT is the database default and is represented
// by the empty string.
const (
	ActionRestrict = ""
	ActionCascade  = "CASCADE"
	ActionSetNull  = "SET NULL"
)

// NormalizeAction canonicalizes a referential action. NO ACTION and RESTRICT
// both become ActionRestrict.
func NormalizeAction(action string) (string, error) {
	action = strings.Join(strings.Fields(gstr.ToUpper(action)), " ")
	switch action {
	case "", "RESTRICT", "NO ACTION":
		return ActionRestrict, nil
	case ActionCascade, ActionSetNull:
		return action, nil
	}
	return "", gerror.NewCodef(gcode.CodeInvalidParameter, "invalid referential action %q", action)
}

// Reference declares the target of a foreign key.
type Reference struct {
	shorthand string
	table     string
	columns   []string
	onDelete  string
	onUpdate  string
	name      string
}

// Ref declares a reference with the "table.column" shorthand.
func Ref(shorthand string) *Reference {
	return &Reference{shorthand: shorthand}
}

// References declares a reference to columns of table.
func References(table string, columns ...string) *Reference {
	return &Reference{table: table, columns: columns}
}

func (r *Reference) OnDelete(action string) *Reference {
	r.onDelete = action
	return r
}

func (r *Reference) OnUpdate(action string) *Reference {
	r.onUpdate = action
	return r
}

// Cascade sets both referential actions to CASCADE.
func (r *Reference) Cascade() *Reference {
	r.onDelete = ActionCascade
	r.onUpdate = ActionCascade
	return r
}

// Name overrides the generated constraint name.
func (r *Reference) Name(name string) *Reference {
	r.name = name
	return r
}

// ForeignKey is a FOREIGN KEY constraint.
type ForeignKey struct {
	Name          string
	ManuallyNamed bool
	Columns       []string
	RefTable      string
	RefColumns    []string
	OnDelete      string
	OnUpdate      string
}

// NewForeignKey resolves a declared reference for the given local columns
// of table.
func NewForeignKey(table string, columns []string, ref *Reference) (*ForeignKey, error) {
	if len(columns) == 0 {
		return nil, gerror.NewCode(gcode.CodeInvalidParameter, "foreign key requires at least one column")
	}
	if ref == nil {
		return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "foreign key (%s) has no reference", strings.Join(columns, ","))
	}
	fk := &ForeignKey{
		Columns:    columns,
		RefTable:   ref.table,
		RefColumns: ref.columns,
	}
	if ref.shorthand != "" {
		i := strings.LastIndex(ref.shorthand, ".")
		if i <= 0 || i == len(ref.shorthand)-1 {
			return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "invalid foreign key reference %q, expected table.column", ref.shorthand)
		}
		fk.RefTable = ref.shorthand[:i]
		fk.RefColumns = []string{ref.shorthand[i+1:]}
	}
	if fk.RefTable == "" || len(fk.RefColumns) == 0 {
		return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "foreign key (%s) must reference a table and columns", strings.Join(columns, ","))
	}
	if len(fk.RefColumns) != len(columns) {
		return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "foreign key (%s) references %d columns", strings.Join(columns, ","), len(fk.RefColumns))
	}
	var err error
	if fk.OnDelete, err = NormalizeAction(ref.onDelete); err != nil {
		return nil, err
	}
	if fk.OnUpdate, err = NormalizeAction(ref.onUpdate); err != nil {
		return nil, err
	}
	if ref.name != "" {
		fk.Name = ref.name
		fk.ManuallyNamed = true
	} else {
		fk.Name = DefaultKeyName(KeyForeign, table, columns)
	}
	return fk, nil
}

// ColumnsKey is the map key foreign keys are stored under.
func (k *ForeignKey) ColumnsKey() string {
	return ColumnsKey(k.Columns)
}

// ColumnsKey joins column names the way foreign key map keys are written.
func ColumnsKey(columns []string) string {
	return strings.Join(columns, ",")
}

// Equals ignores whether the name was chosen by hand.
func (k *ForeignKey) Equals(o *ForeignKey) bool {
	if k == nil || o == nil {
		return k == o
	}
	return k.Name == o.Name &&
		equalStrings(k.Columns, o.Columns) &&
		k.RefTable == o.RefTable &&
		equalStrings(k.RefColumns, o.RefColumns) &&
		k.OnDelete == o.OnDelete &&
		k.OnUpdate == o.OnUpdate
}

func (k *ForeignKey) Render() string {
	sql := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		QuoteIdentifier(k.Name), quoteIdentifiers(k.Columns), QuoteIdentifier(k.RefTable), quoteIdentifiers(k.RefColumns))
	if k.OnDelete != ActionRestrict {
		sql += " ON DELETE " + k.OnDelete
	}
	if k.OnUpdate != ActionRestrict {
		sql += " ON UPDATE " + k.OnUpdate
	}
	return sql
}

// UnknownKey is a live key whose name does not follow the naming
// convention.
type UnknownKey struct {
	Name    string
	Columns []string
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
