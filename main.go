// @title Quiz Portal 后端 API
// @version 1.0
// @description Quiz 前端的后端网关：代理 REST 题库后端、读取 DatoCMS 内容，并提供管理接口。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"quiz_portal_backend/internal/app"
	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/pkg/database"
	"quiz_portal_backend/pkg/logger"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行本地题库(store 数据源)的数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 迁移完成后直接退出
	if *migrateOnly {
		// InitDB 会自动迁移表结构
		if _, err := database.InitDB(&cfg.Database, cfg.Server.Mode); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
