package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"

	"intern-match-go/internal/api/middleware"
	"intern-match-go/internal/api/router"
	"intern-match-go/internal/config"
	"intern-match-go/internal/constants"
	appCoreLogger "intern-match-go/internal/logger"
	"intern-match-go/internal/outbox"
	"intern-match-go/internal/processor"
	"intern-match-go/internal/storage"
	"intern-match-go/internal/tracing"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}

	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	appCoreLogger.BridgeHertz()
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, constants.Version)
	if err != nil {
		glog.Warnf("初始化链路追踪失败, 继续运行: %v", err)
	}

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	if cfg.Storage.SeedCatalog {
		n, err := storage.SeedCatalog(ctx, storageManager.Repository, time.Now())
		if err != nil {
			glog.Fatalf("写入示例岗位失败: %v", err)
		}
		glog.Infof("示例岗位已写入: %d", n)
	}

	if storageManager.RabbitMQ != nil {
		if err := storageManager.RabbitMQ.SetupTopology(); err != nil {
			glog.Warnf("声明RabbitMQ交换机和队列失败: %v", err)
		}
	}

	var messageRelay *outbox.MessageRelay
	if storageManager.Gorm != nil && storageManager.RabbitMQ != nil {
		messageRelay = outbox.NewMessageRelay(storageManager.Gorm.DB(), storageManager.RabbitMQ,
			appCoreLogger.Component("outbox"),
			outbox.WithPollingInterval(config.GetDuration(cfg.Outbox.PollingInterval, 2*time.Second)),
			outbox.WithBatchSize(cfg.Outbox.BatchSize),
			outbox.WithMaxRetry(cfg.Outbox.MaxRetry),
		)
		messageRelay.Start()
		glog.Info("消息中继服务已启动")
	}

	procSettings := processor.DefaultSettings()
	proc, err := processor.NewProcessor(
		processor.NewComponents(processor.WithcompStorage(storageManager)),
		&procSettings,
		processor.WithsetConfig(cfg),
		processor.WithsetLogger(appCoreLogger.Component("processor")),
	)
	if err != nil {
		glog.Fatalf("初始化Processor失败: %v", err)
	}
	glog.Info("Processor初始化成功")

	tracer, tracingCfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodyMB*1024*1024),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(tracingCfg), middleware.RequestLogger())

	handlers := router.NewHandlers(proc, cfg.Upload.MaxFileSizeBytes())
	if storageManager.Redis != nil {
		handlers.Health.AddCheck("redis", storageManager.Redis)
	}

	var uploadMiddleware []app.HandlerFunc
	if cfg.RateLimit.Enabled {
		var shared middleware.WindowLimiter
		if storageManager.Redis != nil {
			shared = storageManager.Redis
		}
		uploadMiddleware = append(uploadMiddleware, middleware.UploadRateLimit(shared,
			cfg.RateLimit.UploadLimit, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))
	}
	router.RegisterRoutes(h, handlers, uploadMiddleware...)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	if messageRelay != nil {
		messageRelay.Stop()
		glog.Info("消息中继服务已停止")
	}

	timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), timeout)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			glog.Warnf("关闭链路追踪失败: %v", err)
		}
	}
	glog.Info("优雅退出完成")
}
