package tablesync

import (
	"testing"
	"time"

	"github.com/gogf/gf/v2/test/gtest"
)

type base struct {
	Id uint32 `ddl:"primaryKey"`
}

type tagUser struct {
	TableMeta `tableName:"tag_user" engine:"InnoDB" migrationStrategy:"safe" autoIncrement:"1000"`
	base
	TenantId  uint32     `ddl:"not null;uniqueIndex:tenant_email"`
	Email     string     `ddl:"size:64;NOT NULL;uniqueIndex:tenant_email"`
	Nick      string     `ddl:"size:32;index;default:'it''s'"`
	State     int8       `ddl:"notNull;default:0"`
	Score     float64    `ddl:"type:decimal(10,2) unsigned;default:null"`
	GroupId   uint32     `ddl:"fk:group.id;fkOnDelete:cascade"`
	Skipped   string     `ddl:"-"`
	Renamed   string     `ddl:"name:display_name;size:16;renameFrom:title;charset:utf8mb4"`
	CreatedAt *time.Time `ddl:"type:timestamp;not null"`
	UpdatedAt *time.Time `ddl:"notNull;default:CURRENT_TIMESTAMP;onUpdate"`
	secret    string
}

type plain struct {
	TableMeta
	Code string `ddl:"primaryKey;size:8"`
}

func TestSyncer_StructDefinition(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		s := &Syncer{Tables: []Table{tagUser{}, &plain{}}}
		tables, err := s.prepare()
		t.AssertNil(err)
		t.Assert(len(tables), 2)

		user := tables[0]
		t.Assert(user.strategy, Safe)
		t.Assert(user.desired.Render(), "CREATE TABLE `tag_user` ("+
			"`id` int unsigned NOT NULL AUTO_INCREMENT, "+
			"`tenant_id` int unsigned NOT NULL, "+
			"`email` varchar(64) NOT NULL, "+
			"`nick` varchar(32) DEFAULT 'it''s', "+
			"`state` tinyint NOT NULL DEFAULT '0', "+
			"`score` decimal(10,2) unsigned DEFAULT NULL, "+
			"`group_id` int unsigned, "+
			"`display_name` varchar(16) CHARACTER SET utf8mb4, "+
			"`created_at` timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP, "+
			"`updated_at` datetime NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP, "+
			"PRIMARY KEY (`id`), "+
			"UNIQUE KEY `uniq_tenant_id_email` (`tenant_id`,`email`), "+
			"KEY `idx_nick` (`nick`), "+
			"CONSTRAINT `fk_tag_user_group_id` FOREIGN KEY (`group_id`) REFERENCES `group` (`id`) ON DELETE CASCADE"+
			") ENGINE=InnoDB AUTO_INCREMENT=1000 DEFAULT CHARSET=utf8mb4")
		t.Assert(user.desired.Column("display_name").RenameFrom, "title")

		// the table name defaults to the snake-cased type name
		t.Assert(tables[1].desired.Name, "plain")
		t.Assert(tables[1].desired.CreateStatement(), "CREATE TABLE `plain` (`code` varchar(8) NOT NULL, PRIMARY KEY (`code`)) DEFAULT CHARSET=utf8mb4")
	})
}

func TestSyncer_StructDefinitionErrors(t *testing.T) {
	type badType struct {
		TableMeta
		Id uint32 `ddl:"primaryKey;charset:utf8mb4"`
	}
	type badRef struct {
		TableMeta
		UserId int `ddl:"fk:user"`
	}
	tests := []struct {
		name  string
		table Table
	}{
		{"attribute not applicable", badType{}},
		{"bad reference", badRef{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gtest.C(t, func(t *gtest.T) {
				_, err := (&Syncer{Tables: []Table{tt.table}}).prepare()
				t.AssertNE(err, nil)
			})
		})
	}
}

func TestParseDdlTag(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		tags := parseDdlTag("size:32; NOT NULL ;default:'a:b';index")
		t.Assert(tags["size"], "32")
		t.Assert(tags[tagNotNull], "true")
		t.Assert(tags[tagDefault], "'a:b'")
		t.Assert(tags[tagIndex], "true")
		t.Assert(len(parseDdlTag("")), 0)
	})
}

func TestGetTableMeta(t *testing.T) {
	gtest.C(t, func(t *gtest.T) {
		t.Assert(GetTableMeta(tagUser{}, "tableName").String(), "tag_user")
		t.Assert(GetTableMeta(&tagUser{}, "engine").String(), "InnoDB")
		t.Assert(GetTableMeta(tagUser{}, "comment") == nil, true)
		t.Assert(GetTableMeta(plain{}, "tableName") == nil, true)
	})
}
