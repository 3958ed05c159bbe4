package tablesync

import (
	"reflect"
	"strings"

	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/os/gstructs"
)

// parseDdlTag splits `key:value;flag` pairs. Keys are lower-cased with spaces
// removed; a flag without value is "true". Values may contain ':'.
func parseDdlTag(tag string) map[string]string {
	tags := map[string]string{}
	for _, str := range strings.Split(tag, ";") {
		x := strings.Split(str, ":")
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(x[0]), " ", ""))
		if key == "" {
			continue
		}
		if len(x) > 1 {
			tags[key] = strings.TrimSpace(strings.Join(x[1:], ":"))
		} else {
			tags[key] = "true"
		}
	}
	return tags
}

// fields retrieves and returns the fields of `pointer` as slice.
func fields(in gstructs.FieldsInput) ([]gstructs.Field, error) {
	var (
		ok                   bool
		fieldFilterMap       = make(map[string]struct{})
		retrievedFields      = make([]gstructs.Field, 0)
		currentLevelFieldMap = make(map[string]gstructs.Field)
	)
	rangeFields, err := getFieldValues(in.Pointer)
	if err != nil {
		return nil, err
	}

	for index := 0; index < len(rangeFields); index++ {
		field := rangeFields[index]
		currentLevelFieldMap[field.Name()] = field
	}

	for index := 0; index < len(rangeFields); index++ {
		field := rangeFields[index]
		if _, ok = fieldFilterMap[field.Name()]; ok {
			continue
		}
		if field.IsEmbedded() {
			if in.RecursiveOption != gstructs.RecursiveOptionNone {
				switch in.RecursiveOption {
				case gstructs.RecursiveOptionEmbeddedNoTag:
					if field.TagStr() != "" {
						break
					}
					fallthrough

				case gstructs.RecursiveOptionEmbedded:
					structFields, err := fields(gstructs.FieldsInput{
						Pointer:         field.Value,
						RecursiveOption: in.RecursiveOption,
					})
					if err != nil {
						return nil, err
					}
					// embedded fields keep their position in the column order
					for _, structField := range structFields {
						if _, ok = currentLevelFieldMap[structField.Name()]; ok {
							continue
						}
						fieldFilterMap[structField.Name()] = struct{}{}
						retrievedFields = append(retrievedFields, structField)
					}
					continue
				}
			}
			continue
		}
		fieldFilterMap[field.Name()] = struct{}{}
		retrievedFields = append(retrievedFields, field)
	}
	return retrievedFields, nil
}

func getFieldValues(value interface{}) ([]gstructs.Field, error) {
	var (
		reflectValue reflect.Value
		reflectKind  reflect.Kind
	)
	if v, ok := value.(reflect.Value); ok {
		reflectValue = v
		reflectKind = reflectValue.Kind()
	} else {
		reflectValue = reflect.ValueOf(value)
		reflectKind = reflectValue.Kind()
	}
	for {
		switch reflectKind {
		case reflect.Ptr:
			if !reflectValue.IsValid() || reflectValue.IsNil() {
				// If pointer is type of *struct and nil, then automatically create a temporary struct.
				reflectValue = reflect.New(reflectValue.Type().Elem()).Elem()
				reflectKind = reflectValue.Kind()
			} else {
				reflectValue = reflectValue.Elem()
				reflectKind = reflectValue.Kind()
			}
		case reflect.Array, reflect.Slice:
			reflectValue = reflect.New(reflectValue.Type().Elem()).Elem()
			reflectKind = reflectValue.Kind()
		default:
			goto exitLoop
		}
	}

exitLoop:
	for reflectKind == reflect.Ptr {
		reflectValue = reflectValue.Elem()
		reflectKind = reflectValue.Kind()
	}
	if reflectKind != reflect.Struct {
		return nil, gerror.NewCode(
			gcode.CodeInvalidParameter,
			"given value should be either type of struct/*struct/[]struct/[]*struct",
		)
	}
	var (
		structType = reflectValue.Type()
		length     = reflectValue.NumField()
		fields     = make([]gstructs.Field, length)
	)
	for i := 0; i < length; i++ {
		fields[i] = gstructs.Field{
			Value: reflectValue.Field(i),
			Field: structType.Field(i),
		}
	}
	return fields, nil
}
