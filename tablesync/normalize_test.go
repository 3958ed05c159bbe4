package tablesync

import (
	"testing"

	"github.com/glennliao/schema-sync/model"
	"github.com/gogf/gf/v2/test/gtest"
)

func mustNormalize(def *Definition) *model.Schema {
	schema, err := Normalize(def)
	if err != nil {
		panic(err)
	}
	return schema
}

func TestNormalize(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		schema, err := Normalize(&Definition{
			Name: "member",
			Columns: []*model.ColumnBuilder{
				model.Int("tenant_id").Unsigned(),
				model.Int("user_id").Unsigned(),
				model.VarChar("email", 64).Unique(),
				model.VarChar("nick", 32).Index().Unique(),
				model.Point("pos").NotNull().SpatialIndex(),
			},
			PrimaryKey: []string{"tenant_id", "user_id"},
			Keys: []model.KeyDecl{
				model.Index("tenant_id", "nick(8)"),
				model.Index("nick"),
			},
			ForeignKeys: map[string]*model.Reference{
				"tenant_id, user_id": model.References("tenant_user", "tenant_id", "user_id").OnDelete("RESTRICT"),
				"user_id":            model.Ref("user.id").OnDelete("no action").OnUpdate("cascade"),
			},
			Engine:  "InnoDB",
			Charset: "utf8mb4",
		})
		t.AssertNil(err)

		t.Assert(schema.PrimaryKey.Columns, []string{"tenant_id", "user_id"})
		t.Assert(schema.Column("tenant_id").NotNull, true)
		t.Assert(schema.Column("user_id").NotNull, true)
		t.Assert(schema.Column("email").NotNull, false)

		var unique, index []string
		for _, k := range schema.UniqueKeys {
			unique = append(unique, k.Name)
		}
		for _, k := range schema.Indexes {
			index = append(index, k.Name)
		}
		t.Assert(unique, []string{"uniq_email", "uniq_nick"})
		t.Assert(index, []string{"idx_nick", "idx_tenant_id_nick"})
		t.Assert(len(schema.SpatialIndexes), 1)

		composite := schema.ForeignKeys["tenant_id,user_id"]
		t.AssertNE(composite, nil)
		t.Assert(composite.Name, "fk_member_tenant_id_user_id")
		t.Assert(composite.OnDelete, model.ActionRestrict)

		single := schema.ForeignKeys["user_id"]
		t.Assert(single.RefTable, "user")
		t.Assert(single.OnDelete, model.ActionRestrict)
		t.Assert(single.OnUpdate, model.ActionCascade)

		t.Assert(schema.Options.Engine, "InnoDB")
	})
}

func TestNormalize_ColumnPrimaryKey(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		schema := mustNormalize(&Definition{
			Name:    "a",
			Columns: []*model.ColumnBuilder{model.Timestamp("at").PrimaryKey()},
		})
		t.Assert(schema.PrimaryKey.Columns, []string{"at"})
		t.Assert(schema.Column("at").Render(), "timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP")

		// a table-level primary key forces NOT NULL the same way
		schema = mustNormalize(&Definition{
			Name:       "b",
			Columns:    []*model.ColumnBuilder{model.Timestamp("at")},
			PrimaryKey: []string{"at"},
		})
		t.Assert(schema.Column("at").Render(), "timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP")
	})
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		def  *Definition
	}{
		{"empty name", &Definition{Columns: []*model.ColumnBuilder{model.Int("a")}}},
		{"no columns", &Definition{Name: "t"}},
		{"duplicate column", &Definition{Name: "t", Columns: []*model.ColumnBuilder{model.Int("a"), model.BigInt("a")}}},
		{"bad column", &Definition{Name: "t", Columns: []*model.ColumnBuilder{model.VarChar("a", 1).AutoIncrement()}}},
		{"unknown primary key column", &Definition{Name: "t", Columns: []*model.ColumnBuilder{model.Int("a")}, PrimaryKey: []string{"b"}}},
		{"zero column key", &Definition{Name: "t", Columns: []*model.ColumnBuilder{model.Int("a")}, Keys: []model.KeyDecl{model.Index()}}},
		{"unknown key column", &Definition{Name: "t", Columns: []*model.ColumnBuilder{model.Int("a")}, Keys: []model.KeyDecl{model.Unique("b")}}},
		{"bad key part", &Definition{Name: "t", Columns: []*model.ColumnBuilder{model.Int("a")}, Keys: []model.KeyDecl{model.Index("a(x)")}}},
		{"bad action", &Definition{Name: "t", Columns: []*model.ColumnBuilder{model.Int("a")}, ForeignKeys: map[string]*model.Reference{"a": model.Ref("u.id").OnUpdate("sometimes")}}},
		{"unknown foreign key column", &Definition{Name: "t", Columns: []*model.ColumnBuilder{model.Int("a")}, ForeignKeys: map[string]*model.Reference{"b": model.Ref("u.id")}}},
		{"duplicate foreign key", &Definition{Name: "t", Columns: []*model.ColumnBuilder{model.Int("a"), model.Int("b")}, ForeignKeys: map[string]*model.Reference{
			"a,b":  model.References("u", "x", "y"),
			"a, b": model.References("u", "x", "y"),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gtest.C(t, func(t *gtest.T) {
				_, err := Normalize(tt.def)
				t.AssertNE(err, nil)
			})
		})
	}
}
