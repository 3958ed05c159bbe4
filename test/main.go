package main

import (
	"context"
	"time"

	"github.com/glennliao/schema-sync/model"
	"github.com/glennliao/schema-sync/tablesync"
	_ "github.com/gogf/gf/contrib/drivers/mysql/v2"
	"github.com/gogf/gf/v2/frame/g"
)

type User struct {
	tablesync.TableMeta `tableName:"user" engine:"InnoDB" charset:"utf8mb4"`
	Id                  uint32     `ddl:"primaryKey"`
	Username            string     `ddl:"size:64;not null;uniqueIndex"`
	Password            string     `ddl:"size:128;not null"`
	State               int8       `ddl:"not null;default:0"`
	CreatedAt           *time.Time `ddl:"type:timestamp;not null"`
	UpdatedAt           *time.Time `ddl:"type:timestamp;not null;onUpdate"`
}

type RedisConnection struct {
	tablesync.TableMeta
	Id        uint32 `ddl:"primaryKey"`
	UserId    uint32 `ddl:"fk:user.id;fkOnDelete:cascade"`
	Title     string `ddl:"index:title_host"`
	Host      string `ddl:"index:title_host"`
	Port      string `ddl:"size:5"`
	Db        string `ddl:"size:2;default:'0'"`
	Options   string `ddl:"type:json"`
	CreatedAt *time.Time
	DeletedAt *time.Time
}

var post = &tablesync.Definition{
	Name: "post",
	Columns: []*model.ColumnBuilder{
		model.BigInt("id").Unsigned().AutoIncrement().PrimaryKey(),
		model.Int("user_id").Unsigned().NotNull().Index(),
		model.VarChar("title", 200).NotNull().Default(""),
		model.Text("body"),
		model.Enum("status", "draft", "published").NotNull().Default("draft"),
		model.DateTime("created_at").NotNull().DefaultRaw("CURRENT_TIMESTAMP"),
	},
	Keys: []model.KeyDecl{
		model.Fulltext("title", "body"),
	},
	ForeignKeys: map[string]*model.Reference{
		"user_id": model.Ref("user.id").Cascade(),
	},
	Engine:  "InnoDB",
	Charset: "utf8mb4",
}

func main() {
	ctx := context.TODO()

	config, err := tablesync.LoadConfig(ctx)
	if err != nil {
		panic(err)
	}

	syncer := tablesync.Syncer{
		Tables: []tablesync.Table{
			User{},
			RedisConnection{},
			post,
		},
		Config: config,
	}
	err = syncer.Sync(ctx, g.DB())
	if err != nil {
		panic(err)
	}
}
