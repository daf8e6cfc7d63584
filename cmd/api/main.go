package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/api"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/bootstrap"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/config"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/pkg/log"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar a aplicação")
	}
	defer func() {
		if err := app.Close(); err != nil {
			logrus.WithError(err).Error("Erro ao liberar recursos")
		}
	}()

	if err := app.Orchestrator.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de snapshots")
	} else {
		logrus.Info("Agendador de snapshots iniciado com sucesso")
	}
	defer app.Orchestrator.Stop()

	server, err := api.New(cfg, app.Orchestrator, app.Metrics, app.DB)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger aplica o formato padrão antes da configuração ser lida
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
