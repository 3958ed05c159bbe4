package mysql

import (
	"strings"

	"github.com/glennliao/schema-sync/model"
	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/text/gregex"
	"github.com/gogf/gf/v2/text/gstr"
	"github.com/gogf/gf/v2/util/gconv"
)

const identPattern = "`((?:``|[^`])+)`"

var (
	headerPattern     = `(?is)^\s*CREATE\s+(?:TEMPORARY\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(?:` + "`(?:``|[^`])+`" + `\.)?` + identPattern + `\s*\(`
	columnPattern     = `(?s)^` + identPattern + `\s+(.*)$`
	keyPattern        = `(?i)^(?:(UNIQUE|SPATIAL|FULLTEXT)\s+)?(?:KEY|INDEX)\s+` + identPattern + `\s*\(`
	keyPartPattern    = identPattern + `(?:\((\d+)\))?`
	foreignKeyPattern = `(?is)^CONSTRAINT\s+` + identPattern + `\s+FOREIGN\s+KEY\s*\(([^)]*)\)\s*REFERENCES\s+(?:` + "`(?:``|[^`])+`" + `\.)?` + identPattern + `\s*\(([^)]*)\)(.*)$`
)

// ParseCreateTable rebuilds a schema from the DDL MySQL reports for a table.
//
// Parsing is line and pattern based, not a SQL grammar. Enum and set values
// containing ')' are not supported and yield a wrong column type.
func ParseCreateTable(ddl string) (*model.Schema, error) {
	header, err := gregex.MatchString(headerPattern, ddl)
	if err != nil || len(header) == 0 {
		return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "not a CREATE TABLE statement: %.64q", ddl)
	}
	schema := model.NewSchema(unquoteIdent(header[1]))

	open := len(header[0]) - 1
	end := matchParen(ddl, open)
	if end < 0 {
		return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "table %s: unbalanced parentheses", schema.Name)
	}

	defs := splitDefinitions(ddl[open+1 : end])

	// MySQL creates an index named after a foreign key constraint when no
	// usable index exists; it belongs to the constraint.
	constraintNames := map[string]bool{}
	for _, def := range defs {
		if fk, ok := parseForeignKey(def); ok {
			constraintNames[fk.Name] = true
			schema.ForeignKeys[fk.ColumnsKey()] = fk
		}
	}

	for _, def := range defs {
		switch {
		case strings.HasPrefix(def, "`"):
			col, err := parseColumn(def)
			if err != nil {
				return nil, gerror.Wrapf(err, "table %s", schema.Name)
			}
			schema.Columns = append(schema.Columns, col)

		case gregex.IsMatchString(`(?i)^PRIMARY\s+KEY`, def):
			schema.PrimaryKey = parsePrimaryKey(def)

		case gregex.IsMatchString(keyPattern, def):
			parseKey(schema, def, constraintNames)
		}
	}

	schema.Options = parseTableOptions(ddl[end+1:])
	return schema, nil
}

func unquoteIdent(s string) string {
	return strings.ReplaceAll(s, "``", "`")
}

// scan walks s from start, tracking quotes and parenthesis depth, and calls
// visit for every byte outside quotes. visit returns false to stop.
func scan(s string, start int, visit func(i, depth int) bool) {
	var (
		quote byte
		depth int
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' && quote == '\'' {
				i++
			} else if c == quote {
				if i+1 < len(s) && s[i+1] == quote {
					i++
				} else {
					quote = 0
				}
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
			continue
		case '(':
			depth++
		case ')':
			depth--
		}
		if !visit(i, depth) {
			return
		}
	}
}

// matchParen returns the index of the parenthesis closing the one at open.
func matchParen(s string, open int) int {
	end := -1
	scan(s, open, func(i, depth int) bool {
		if s[i] == ')' && depth == 0 {
			end = i
			return false
		}
		return true
	})
	return end
}

func splitDefinitions(body string) []string {
	var (
		defs  []string
		start int
	)
	add := func(def string) {
		if def = gstr.Trim(def); def != "" {
			defs = append(defs, def)
		}
	}
	scan(body, 0, func(i, depth int) bool {
		if body[i] == ',' && depth == 0 {
			add(body[start:i])
			start = i + 1
		}
		return true
	})
	add(body[start:])
	return defs
}

// readToken returns the token starting at start, ending at the first space
// outside quotes and parentheses.
func readToken(s string, start int) string {
	end := len(s)
	scan(s, start, func(i, depth int) bool {
		if depth == 0 && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
			end = i
			return false
		}
		return true
	})
	return s[start:end]
}

func parseColumn(def string) (*model.Column, error) {
	match, err := gregex.MatchString(columnPattern, def)
	if err != nil || len(match) == 0 {
		return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "cannot parse column definition %q", def)
	}
	name := unquoteIdent(match[1])
	baseType, length, attrs, ok := model.ParseType(match[2])
	if !ok {
		return nil, gerror.NewCodef(gcode.CodeInvalidParameter, "cannot parse type of column %s: %q", name, match[2])
	}
	col := &model.Column{
		Name:   name,
		Kind:   model.KindOf(baseType),
		Type:   baseType,
		Length: length,
	}

	attrs, _ = gregex.ReplaceString(`(?i)\s*COMMENT\s+'(?:''|\\.|[^'\\])*'`, "", attrs)

	if match, _ := gregex.MatchString(`(?i)^(.*?(?:^|\s))DEFAULT\s+`, attrs); len(match) > 0 {
		value := readToken(attrs, len(match[0]))
		if strings.HasPrefix(value, "'") {
			col.Default = model.Default{Kind: model.DefaultLiteral, SQL: value}
		} else {
			col.Default = model.Default{Kind: model.DefaultRaw, SQL: value}
		}
		attrs = match[1] + attrs[len(match[0])+len(value):]
	}

	col.NotNull = gregex.IsMatchString(`(?i)\bNOT\s+NULL\b`, attrs)

	switch col.Kind {
	case model.KindNumeric:
		col.Numeric.Unsigned = gregex.IsMatchString(`(?i)\bunsigned\b`, attrs)
		col.Numeric.Zerofill = gregex.IsMatchString(`(?i)\bzerofill\b`, attrs)
		col.Numeric.AutoIncrement = gregex.IsMatchString(`(?i)\bAUTO_INCREMENT\b`, attrs)
	case model.KindText:
		if m, _ := gregex.MatchString(`(?i)\bCHARACTER\s+SET\s+(\w+)`, attrs); len(m) > 1 {
			col.Text.Charset = m[1]
		}
		if m, _ := gregex.MatchString(`(?i)\bCOLLATE\s+(\w+)`, attrs); len(m) > 1 {
			col.Text.Collate = m[1]
		}
	case model.KindUpdatableTime, model.KindTimestamp:
		col.Time.OnUpdateCurrentTimestamp = gregex.IsMatchString(`(?i)\bON\s+UPDATE\s+CURRENT_TIMESTAMP\b`, attrs)
	}
	return col, nil
}

func parseIdentList(s string) []string {
	var names []string
	matches, _ := gregex.MatchAllString(identPattern, s)
	for _, m := range matches {
		names = append(names, unquoteIdent(m[1]))
	}
	return names
}

func parsePrimaryKey(def string) *model.PrimaryKey {
	open := strings.Index(def, "(")
	if open < 0 {
		return nil
	}
	end := matchParen(def, open)
	if end < 0 {
		return nil
	}
	columns := parseIdentList(def[open+1 : end])
	if len(columns) == 0 {
		return nil
	}
	return &model.PrimaryKey{Columns: columns}
}

// parseKeyParts reads "`a`,`b`(10)". ok is false for anything else, such as
// functional key parts.
func parseKeyParts(s string) (parts []model.KeyPart, ok bool) {
	for _, item := range splitDefinitions(s) {
		m, _ := gregex.MatchString(`^`+keyPartPattern+`(?:\s+(?:ASC|DESC))?$`, item)
		if len(m) == 0 {
			return nil, false
		}
		parts = append(parts, model.KeyPart{Column: unquoteIdent(m[1]), Length: gconv.Int(m[2])})
	}
	return parts, len(parts) > 0
}

func parseKey(schema *model.Schema, def string, constraintNames map[string]bool) {
	match, _ := gregex.MatchString(keyPattern, def)
	name := unquoteIdent(match[2])
	category := model.KeyIndex
	if match[1] != "" {
		category = model.KeyCategory(gstr.ToUpper(match[1]))
	}

	open := len(match[0]) - 1
	end := matchParen(def, open)
	var body string
	if end > open {
		body = def[open+1 : end]
	}
	parts, ok := parseKeyParts(body)
	if !ok {
		schema.UnknownKeys = append(schema.UnknownKeys, model.UnknownKey{Name: name, Columns: parseIdentList(body)})
		return
	}

	key := &model.IndexKey{Category: category, Name: name, Parts: parts}
	switch {
	case name == model.DefaultKeyName(category, schema.Name, key.Columns()):
		schema.AddKey(key)
	case constraintNames[name]:
	default:
		schema.UnknownKeys = append(schema.UnknownKeys, model.UnknownKey{Name: name, Columns: key.Columns()})
	}
}

func parseForeignKey(def string) (*model.ForeignKey, bool) {
	match, err := gregex.MatchString(foreignKeyPattern, def)
	if err != nil || len(match) == 0 {
		return nil, false
	}
	fk := &model.ForeignKey{
		Name:       unquoteIdent(match[1]),
		Columns:    parseIdentList(match[2]),
		RefTable:   unquoteIdent(match[3]),
		RefColumns: parseIdentList(match[4]),
	}
	actions := `(RESTRICT|CASCADE|SET\s+NULL|NO\s+ACTION|SET\s+DEFAULT)`
	if m, _ := gregex.MatchString(`(?i)ON\s+DELETE\s+`+actions, match[5]); len(m) > 1 {
		fk.OnDelete = parseAction(m[1])
	}
	if m, _ := gregex.MatchString(`(?i)ON\s+UPDATE\s+`+actions, match[5]); len(m) > 1 {
		fk.OnUpdate = parseAction(m[1])
	}
	return fk, true
}

// parseAction keeps actions that cannot be declared verbatim so they never
// compare equal to a declared key.
func parseAction(s string) string {
	action, err := model.NormalizeAction(s)
	if err != nil {
		return strings.Join(strings.Fields(gstr.ToUpper(s)), " ")
	}
	return action
}

func parseTableOptions(tail string) model.TableOptions {
	var options model.TableOptions
	if m, _ := gregex.MatchString(`(?i)\bENGINE\s*=\s*(\w+)`, tail); len(m) > 1 {
		options.Engine = m[1]
	}
	if m, _ := gregex.MatchString(`(?i)\bAUTO_INCREMENT\s*=\s*(\d+)`, tail); len(m) > 1 {
		options.AutoIncrement = gconv.Uint64(m[1])
	}
	if m, _ := gregex.MatchString(`(?i)\b(?:CHARSET|CHARACTER\s+SET)\s*=\s*(\w+)`, tail); len(m) > 1 {
		options.Charset = m[1]
	}
	if m, _ := gregex.MatchString(`(?i)\bCOLLATE\s*=\s*(\w+)`, tail); len(m) > 1 {
		options.Collate = m[1]
	}
	if m, _ := gregex.MatchString(`(?i)\bCOMPRESSION\s*=\s*'([^']*)'`, tail); len(m) > 1 {
		options.Compression = m[1]
	}
	if m, _ := gregex.MatchString(`(?i)\bROW_FORMAT\s*=\s*(\w+)`, tail); len(m) > 1 {
		options.RowFormat = m[1]
	}
	return options
}
