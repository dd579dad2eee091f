package wire

import (
	"Dreamscape/internal/api"
	"Dreamscape/internal/api/config"
	"Dreamscape/internal/api/handler"
	"Dreamscape/internal/job"
	"Dreamscape/internal/pkg/cron"
	"Dreamscape/internal/pkg/es"
	"Dreamscape/internal/pkg/kafka"
	"Dreamscape/internal/pkg/llm"
	"Dreamscape/internal/pkg/minio"
	"Dreamscape/internal/pkg/mongo"
	"Dreamscape/internal/pkg/redis"
	"Dreamscape/internal/repository"
	"Dreamscape/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了 API 进程运行所需的所有顶级组件
type ApplicationContainer struct {
	Router    *gin.Engine
	DB        *gorm.DB
	Publisher kafka.Publisher
}

// WorkerContainer 封装了后台进程的消费者与定时任务
type WorkerContainer struct {
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

// BuildApplication 可选组件 (ES / MinIO / Mongo / Kafka) 未启用时以 nil 或空实现注入
func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	dreamRepo := repository.NewDreamRepo(db)
	actionRepo := repository.NewDreamActionRepo(db)
	ratingRepo := repository.NewRatingRepo(db)
	analysisRepo := repository.NewAnalysisRepo(db)

	var searchRepo es.DreamRepo
	if es.Client != nil {
		searchRepo = es.NewDreamRepo(es.Client)
	}
	var mediaStore service.MediaStore
	if minio.Client != nil {
		mediaStore = minio.NewStore()
	}
	var sysBoxRepo mongo.SysBoxRepo
	if mongoDB != nil {
		sysBoxRepo = mongo.NewSysBoxRepo(mongoDB)
	}
	publisher, err := newPublisher(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	blacklist := redis.NewTokenBlacklist()
	locker := redis.NewDistLock()

	userService := service.NewUserService(userRepo, blacklist, cfg.Auth.OwnerOpenID)
	dreamService := service.NewDreamService(dreamRepo, actionRepo, ratingRepo, searchRepo, mediaStore, publisher)
	actionService := service.NewDreamActionService(actionRepo, dreamRepo, publisher)
	ratingService := service.NewRatingService(ratingRepo, dreamRepo, actionRepo, publisher)
	analysisService := service.NewAnalysisService(
		analysisRepo,
		dreamRepo,
		llm.NewDreamAnalyzer(),
		llm.NewImageGenerator(),
		mediaStore,
		locker,
		publisher,
		time.Duration(cfg.LLM.Timeout)*time.Second,
		time.Duration(cfg.Image.Timeout)*time.Second,
	)
	mediaService := service.NewMediaService(mediaStore)
	sysBoxService := service.NewSysBoxService(sysBoxRepo, userRepo)

	handlers := &api.HandlersGroup{
		UserHandler:        handler.NewUserHandler(userService),
		DreamHandler:       handler.NewDreamHandler(dreamService),
		DreamActionHandler: handler.NewDreamActionHandler(actionService),
		RatingHandler:      handler.NewRatingHandler(ratingService),
		AnalysisHandler:    handler.NewAnalysisHandler(analysisService),
		MediaHandler:       handler.NewMediaHandler(mediaService),
		SysBoxHandler:      handler.NewSysBoxHandler(sysBoxService),
	}

	router := api.SetupRouter(handlers, &api.RouterOptions{
		Blacklist:     blacklist,
		InternalToken: cfg.Auth.InternalToken,
		AIRateLimit:   cfg.Server.AIRateLimit,
		CORSOrigins:   cfg.Server.CORSOrigins,
	})

	return &ApplicationContainer{
		Router:    router,
		DB:        db,
		Publisher: publisher,
	}, nil
}

// BuildWorker Kafka 未启用时只运行定时任务
func BuildWorker(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*WorkerContainer, error) {
	dreamRepo := repository.NewDreamRepo(db)

	counterJob := job.NewCounterReconcileJob(dreamRepo, redis.NewDistLock())
	cronMgr := cron.NewCronManager(cfg.Jobs, counterJob)

	worker := &WorkerContainer{
		DB:      db,
		CronMgr: cronMgr,
	}
	if !cfg.Kafka.Enabled {
		return worker, nil
	}

	kafkaMgr := kafka.NewConsumerManager(cfg.Kafka)
	if mongoDB != nil {
		err := kafkaMgr.Register(cfg.Kafka, "notify", cfg.Kafka.Consumer.NotifyGroupID,
			kafka.NewNotifyHandler(mongo.NewSysBoxRepo(mongoDB)))
		if err != nil {
			return nil, err
		}
	}
	if es.Client != nil {
		err := kafkaMgr.Register(cfg.Kafka, "search-sync", cfg.Kafka.Consumer.SearchGroupID,
			kafka.NewSearchSyncHandler(dreamRepo, es.NewDreamRepo(es.Client)))
		if err != nil {
			return nil, err
		}
	}
	worker.KafkaManager = kafkaMgr
	return worker, nil
}

func newPublisher(cfg config.KafkaConfig) (kafka.Publisher, error) {
	if !cfg.Enabled {
		return kafka.NopPublisher{}, nil
	}
	return kafka.NewProducer(cfg)
}
