package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/socialnet/internal/config"
	"github.com/socialnet/internal/db"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	email := flag.String("email", cfg.SuperUserEmail, "superuser email (defaults to SUPERUSER_EMAIL)")
	password := flag.String("password", cfg.SuperUserPassword, "superuser password (defaults to SUPERUSER_PASSWORD)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required")
	}

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver:   cfg.DatabaseDriver,
		Path:     cfg.DatabasePath,
		URL:      cfg.DatabaseURL,
		LogLevel: cfg.DatabaseLogLevel,
	}); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	defer db.Close()

	created, err := db.EnsureSuperUser(db.DB, *email, *password)
	if err != nil {
		log.Fatal("创建用户失败:", err)
	}
	if !created {
		fmt.Println("用户已存在，无需初始化")
		return
	}
	fmt.Println("管理员用户创建成功:", db.NormalizeEmail(*email))
}
