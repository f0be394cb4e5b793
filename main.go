// @title GraphQL Profile Dashboard API
// @version 1.0
// @description 学习平台档案看板的后端服务器：聚合XP/审计/进度并生成图表场景。

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"github.com/yhubail/graphql/internal/app"
	"github.com/yhubail/graphql/internal/config"
	"github.com/yhubail/graphql/pkg/configwatcher"
	"github.com/yhubail/graphql/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	watch := flag.Bool("watch-config", false, "监听配置文件变更并热加载")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watch {
		go configwatcher.WatchConfig(*configDir+"/config.yaml", application.ReloadConfig)
	}

	application.Run()
}
