package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-guardian/infrastructure/database/postgres"
	"github.com/vfg2006/profit-guardian/infrastructure/integrator/ads"
	"github.com/vfg2006/profit-guardian/infrastructure/integrator/ads/adsclient"
	"github.com/vfg2006/profit-guardian/infrastructure/repository"
	"github.com/vfg2006/profit-guardian/internal/api"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
	"github.com/vfg2006/profit-guardian/internal/scheduler"
	"github.com/vfg2006/profit-guardian/internal/usecases/applying"
	"github.com/vfg2006/profit-guardian/internal/usecases/authenticating"
	"github.com/vfg2006/profit-guardian/internal/usecases/deciding"
	"github.com/vfg2006/profit-guardian/internal/usecases/evaluating"
	"github.com/vfg2006/profit-guardian/internal/usecases/managing"
	"github.com/vfg2006/profit-guardian/internal/usecases/protecting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	entityRepo := repository.NewEntityRepository(pgConn)
	snapshotRepo := repository.NewSnapshotRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)
	guardianStore := repository.NewGuardianStore(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)
	if err := authenticator.EnsureOperator(); err != nil {
		logrus.WithError(err).Fatal("Erro ao garantir o operador inicial")
	}

	tokenManager := adsclient.NewTokenManager(cfg)
	tokenManager.InitToken()
	go tokenManager.StartAutoRefresh()
	defer tokenManager.StopAutoRefresh()

	adsClient := adsclient.NewClient(cfg, tokenManager)
	adsIntegrator := ads.New(cfg, adsClient)

	evaluator := evaluating.NewEvaluationService(cfg)
	protector := protecting.NewProtectionService(cfg)
	applier := applying.NewApplierService(cfg, adsClient)

	engine := deciding.NewEngine(cfg)
	if err := warmupEngine(engine, entityRepo, guardianStore); err != nil {
		logrus.WithError(err).Fatal("Erro ao recompor o estado do guardian a partir do histórico")
	}

	managementService := managing.NewManagementService(entityRepo, adsClient, engine)

	tickService := scheduler.NewGuardianTickService(
		entityRepo,
		snapshotRepo,
		guardianStore,
		adsIntegrator,
		evaluator,
		protector,
		engine,
		applier,
		cfg,
	)

	if err := tickService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do guardian")
	} else {
		logrus.Info("Agendador do guardian iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		managementService,
		authenticator,
		guardianStore,
		snapshotRepo,
		tickService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// warmupEngine recompõe os contadores de histerese da máquina de estados a
// partir da última decisão persistida de cada entidade. Sem esse passo um
// reinício do processo zeraria as sequências e atrasaria pausas em andamento.
func warmupEngine(
	engine *deciding.Engine,
	entityRepo repository.EntityRepository,
	guardianStore repository.GuardianStore,
) error {
	entities, err := entityRepo.ListAll()
	if err != nil {
		return err
	}

	latest := make(map[string]*domain.GuardianDecision, len(entities))
	for _, entity := range entities {
		decision, err := guardianStore.GetLatestDecision(entity.ID)
		if err != nil {
			return err
		}
		if decision != nil {
			latest[entity.ID] = decision
		}
	}

	engine.LoadFromHistory(entities, latest)

	logrus.WithFields(logrus.Fields{
		"entities":  len(entities),
		"decisions": len(latest),
	}).Info("Estado do guardian recomposto a partir do histórico de decisões")

	return nil
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
