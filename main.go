package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/es5relay/es5relay/internal/cache"
	"github.com/es5relay/es5relay/internal/config"
	"github.com/es5relay/es5relay/internal/logging"
	"github.com/es5relay/es5relay/internal/relay"
	"github.com/es5relay/es5relay/internal/server"
	"github.com/es5relay/es5relay/internal/transform"
	"github.com/es5relay/es5relay/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(*cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config")
		fields["allowed_hosts"] = cfg.AllowedHostList()
		fields["mode"] = cfg.Mode()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动遵循“配置 → 磁盘缓存 → 内存缓存 → 转换器 → Fiber server”顺序，
	// 保证所有请求共享同一份缓存管理器实例。
	disk, err := cache.NewStore(cfg.StoragePath)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存目录失败: %v\n", err)
		return 1
	}
	memory := cache.NewMemory(cfg.CacheMaxEntries, cfg.CacheTTL.DurationValue())
	manager := cache.NewManager(memory, disk)
	defer manager.Close()

	transformer, err := transform.NewESTransformer(cfg.TransformTarget)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化转换器失败: %v\n", err)
		return 1
	}

	httpClient := server.NewUpstreamClient(cfg)
	fetcher := relay.NewHTTPFetcher(httpClient)
	allowlist := relay.NewAllowlist(cfg.AllowedHostList())
	handler := relay.NewHandler(logger, allowlist, manager, fetcher, transformer)

	fields := logging.BaseFields("startup")
	fields["listen_port"] = cfg.ListenPort
	fields["allowed_hosts"] = cfg.AllowedHostList()
	fields["storage_path"] = cfg.StoragePath
	fields["mode"] = cfg.Mode()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, handler, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数；运行时配置全部来自环境变量。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("es5relay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		checkOnly bool
		showVer   bool
	)

	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	return cliOptions{
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(cfg *config.Config, handler server.ScriptHandler, logger *logrus.Logger) error {
	app, err := server.NewApp(server.AppOptions{
		Logger:         logger,
		Relay:          handler,
		AllowedOrigins: cfg.AllowedOriginList(),
		Production:     cfg.Production,
		ListenPort:     cfg.ListenPort,
	})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   cfg.ListenPort,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", cfg.ListenPort))
}
