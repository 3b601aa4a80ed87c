package main

import (
	"fmt"
	"time"

	"adiwals/cinegate-api/api"
	"adiwals/cinegate-api/config"
	"adiwals/cinegate-api/internal/bot"
	"adiwals/cinegate-api/internal/pipeline"
	"adiwals/cinegate-api/internal/service"
	"adiwals/cinegate-api/security"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	if p := config.HashPasswordArg(); p != "" {
		hash, err := security.New().GenerateFromPassword(p)
		if err != nil {
			panic(err)
		}

		fmt.Println(hash)
		return
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	b, err := bot.New(a.DB, a.Store)
	if err != nil {
		panic(err)
	}

	if b != nil {
		go b.Start()
	}
	a.Bot = b

	if viper.GetBool("pipeline.enabled") {
		r := pipeline.NewRunner(a.DB, a.Store)
		r.Notify = b.Notify
		r.StartWorkerPool()
		a.Pipeline = r

		c := cron.New()

		_, err = c.AddFunc(viper.GetString("pipeline.cron"), func() {
			if err := r.Run(); err != nil {
				zap.L().Error("Scheduled pipeline run failed", zap.Error(err))
			}
		})
		if err != nil {
			panic(err)
		}

		c.Start()
	}

	go service.TokenCleanup(time.Hour, a.DB)
	go service.LedgerCleanup(time.Hour*12, a.DB)

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	addr := fmt.Sprintf(":%d", viper.GetInt("host.port"))

	if viper.GetBool("host.ssl.enabled") {
		err = a.Router.RunTLS(
			addr,
			viper.GetString("host.ssl.certificate_path"),
			viper.GetString("host.ssl.certificate_key_path"),
		)
	} else {
		err = a.Router.Run(addr)
	}

	if err != nil {
		panic(err)
	}
}
