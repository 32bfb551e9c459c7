package main

import (
	"log"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/config"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/repository/mysql"
	redisrepo "github.com/Cecile-Hirschauer/adaboards-api/internal/repository/redis"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/router"
)

func main() {
	cfg := config.Load()
	pkg.InitSecrets(cfg.AccessSecret, cfg.RefreshSecret)

	db, err := mysql.InitDB(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("mysql init: %v", err)
	}

	// 自动建表（开发阶段 OK）
	if err = db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.Membership{},
		&model.Task{},
		&model.MembershipOutbox{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	client, err := redisrepo.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis init: %v", err)
	}
	sessions := &redisrepo.SessionRepository{Client: client}

	// kafka 未配置时事件只落外发表
	var producer *pkg.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		producer = pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		defer producer.Close()
	}

	r := router.InitRouter(db, sessions, producer, cfg.SMTP)
	if err = r.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
