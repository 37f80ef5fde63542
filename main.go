package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unihub/controller"
	"unihub/dao/mysql"
	"unihub/dao/redis"
	"unihub/logger"
	"unihub/logic"
	"unihub/pkg/email"
	"unihub/pkg/jwt"
	"unihub/pkg/mq"
	"unihub/pkg/snowflake"
	"unihub/routers"
	"unihub/settings"

	"go.uber.org/zap"
)

func main() {
	var confFile string
	flag.StringVar(&confFile, "conf", "./config.yaml", "配置文件路径")
	flag.Parse()

	if err := settings.Init(confFile); err != nil {
		fmt.Printf("init settings failed, err:%v\n", err)
		return
	}
	if err := snowflake.Init(settings.Conf.Snowflake.StartTime, settings.Conf.Snowflake.MachineID); err != nil {
		fmt.Printf("init snowflake failed, err:%v\n", err)
		return
	}
	if err := logger.Init(settings.Conf.Log, settings.Conf.App.Mode); err != nil {
		fmt.Printf("init logger failed, err:%v\n", err)
		return
	}
	defer zap.L().Sync()

	if settings.Conf.Jwt != nil {
		jwt.SetSecret(settings.Conf.Jwt.Secret)
	}

	// 核心依赖挂了直接 Fatal，不带病运行
	if err := mysql.Init(settings.Conf.Mysql); err != nil {
		zap.L().Fatal("init mysql failed", zap.Error(err))
	}
	defer mysql.Close()

	if err := redis.Init(settings.Conf.Redis); err != nil {
		zap.L().Fatal("init redis failed", zap.Error(err))
	}
	defer redis.Close()

	if err := controller.InitTrans("zh"); err != nil {
		zap.L().Fatal("init validator trans failed", zap.Error(err))
	}

	logic.Init(redis.Store())

	// MQ 和邮件是可选依赖：没配或连不上就只落库不发信
	if settings.Conf.MQ != nil && settings.Conf.MQ.URL != "" {
		mqCfg := mq.Config{URL: settings.Conf.MQ.URL, Queue: settings.Conf.MQ.Queue}

		producer, err := mq.NewProducer(mqCfg)
		if err != nil {
			zap.L().Warn("init mq producer failed, invitations will not be mailed", zap.Error(err))
		} else {
			defer producer.Close()
			logic.SetProducer(producer)
		}

		if settings.Conf.Email != nil {
			consumer, err := mq.NewConsumer(mqCfg)
			if err != nil {
				zap.L().Warn("init mq consumer failed", zap.Error(err))
			} else {
				defer consumer.Close()
				smtp := email.SMTPConfig{
					Host:     settings.Conf.Email.Host,
					Port:     settings.Conf.Email.Port,
					Username: settings.Conf.Email.Username,
					Password: settings.Conf.Email.Password,
					From:     settings.Conf.Email.From,
				}
				if err := logic.StartEmailWorker(consumer, smtp); err != nil {
					zap.L().Warn("start email worker failed", zap.Error(err))
				}
			}
		}
	}

	r := routers.SetupRouter(settings.Conf.App.Mode)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", settings.Conf.App.Port),
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("listen failed", zap.Error(err))
		}
	}()
	zap.L().Info("server started", zap.Int("port", settings.Conf.App.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutdown server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Fatal("server shutdown failed", zap.Error(err))
	}

	zap.L().Info("server exiting")
}
