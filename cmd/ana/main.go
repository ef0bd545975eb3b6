package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/orcapzh/ana/internal/api"
	"github.com/orcapzh/ana/internal/config"
	"github.com/orcapzh/ana/internal/logger"
	"github.com/orcapzh/ana/internal/scanner"
	"github.com/orcapzh/ana/internal/server"
	"github.com/orcapzh/ana/internal/session"
	"github.com/orcapzh/ana/internal/statement"
	"github.com/orcapzh/ana/internal/store"
	"github.com/orcapzh/ana/internal/util"
	"github.com/orcapzh/ana/internal/workflow"
)

const logRetention = 1000

var (
	port       = flag.Int("port", 0, "服务端口 (覆盖配置文件)")
	devMode    = flag.Bool("dev", false, "开发模式")
	configPath = flag.String("config", "", "配置文件路径 (默认 <用户配置目录>/ana/config.toml)")
	dataDir    = flag.String("dataDir", "", "历史数据库目录 (覆盖配置文件)")
	noBrowser  = flag.Bool("no-browser", false, "启动后不自动打开浏览器")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Ana - 送货单对账工具")
	fmt.Println("==========================================")

	// 加载配置
	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	mgr := config.NewManager(path, logger.Default())
	cfg := mgr.Get()

	// 命令行参数覆盖配置（仅本次运行有效，不写回配置文件）
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development || cfg.Server.DevMode,
	})
	if err != nil {
		log = logger.Default()
		log.Warnw("init logger failed, using default", "error", err)
	}
	defer func() { _ = log.Sync() }()
	fmt.Printf("配置文件: %s\n", path)

	logs := logger.NewStream(log, logRetention)

	// 历史记录库；打开失败时不记录历史，工具仍可使用
	var (
		st        *store.Store
		history   api.History
		generated statement.History
	)
	if dir, err := config.EnsureDataDir(&cfg, path); err != nil {
		log.Warnw("create data dir failed", "error", err)
	} else if st, err = store.New(filepath.Join(dir, "ana.db")); err != nil {
		log.Warnw("open history store failed", "error", err)
		st = nil
	} else {
		fmt.Printf("数据目录: %s\n", dir)
		logs.SetSink(st)
		history, generated = st, st
	}

	renderer := statement.NewRenderer(logs, generated)
	sess := session.New(workflow.New(renderer, logs))
	handler := api.NewHandler(api.Deps{
		Config:    mgr,
		Session:   sess,
		Scanner:   scanner.New(logs),
		Processor: renderer,
		History:   history,
		Logs:      logs,
		Logger:    log,
		Open:      util.OpenPath,
	})
	handler.RestoreSelection()

	srv := server.NewServer(&cfg, handler, log)

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听 %s ...\n", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("服务启动失败", "error", err)
		}
	}()

	// 打开浏览器
	if !cfg.Server.DevMode && cfg.Server.OpenBrowser && !*noBrowser {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("请访问 %s\n", url)
	}
	logs.Info("服务已启动: " + url)

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnw("shutdown failed", "error", err)
	}
	if st != nil {
		if err := st.Close(); err != nil {
			log.Warnw("close store failed", "error", err)
		}
	}
}
