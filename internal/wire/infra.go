package wire

import (
	"Dreamscape/internal/api/config"
	"Dreamscape/internal/pkg/database"
	"Dreamscape/internal/pkg/es"
	"Dreamscape/internal/pkg/llm"
	"Dreamscape/internal/pkg/minio"
	"Dreamscape/internal/pkg/mongo"
	"Dreamscape/internal/pkg/redis"
	"Dreamscape/internal/pkg/security"
	"fmt"
	log "log/slog"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Infra 进程启动时建立的外部连接
type Infra struct {
	DB    *gorm.DB
	Mongo *mongodriver.Database
}

// InitInfra 按配置初始化外部依赖，withLLM 为 false 时跳过模型客户端
func InitInfra(cfg *config.Config, withLLM bool) (*Infra, error) {
	security.InitJWT(cfg.Auth.JWTSecret, cfg.Auth.JWTExpireHour)

	// 数据库连接
	dbCfg := cfg.DB
	db, err := database.NewGormDB(&dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}
	infra := &Infra{DB: db}

	// Redis 连接，未配置时锁与 Token 黑名单退化为空实现
	if cfg.Redis.Addr != "" {
		if err = redis.InitRedis(cfg.Redis); err != nil {
			return nil, fmt.Errorf("failed to create redis connection: %w", err)
		}
	} else {
		log.Warn("redis is not configured, distributed lock and token blacklist disabled")
	}

	// Mongo 连接
	if cfg.Mongo.Enabled {
		infra.Mongo, err = mongo.InitMongo(cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("failed to create mongo connection: %w", err)
		}
	}

	// MinIO 连接
	if cfg.MinIO.Enabled {
		if err = minio.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize MinIO: %w", err)
		}
	}

	// ElasticSearch 连接
	if cfg.Elastic.Enabled {
		if err = es.InitClient(); err != nil {
			return nil, fmt.Errorf("failed to initialize ElasticSearch: %w", err)
		}
	}

	// llm 模型初始化
	if withLLM {
		if err = llm.InitLLM(); err != nil {
			return nil, fmt.Errorf("failed to initialize llm models: %w", err)
		}
	}

	return infra, nil
}
