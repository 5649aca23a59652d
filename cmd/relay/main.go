// 認証リレーサービスのエントリポイント。
// フロントエンドからのログイン/トークン更新要求をEKA認証APIへ中継する。
// サーバーレス環境では api/index.go が同じサーバーを利用する。
package main

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nao1215/authrelay/internal/config"
	"github.com/nao1215/authrelay/internal/relay"
	"github.com/nao1215/authrelay/pkg/logging"
)

func main() {
	bootLogger, err := logging.New(logging.Config{})
	if err != nil {
		os.Exit(1)
	}

	// ローカル開発用。.envが無くても起動は続ける
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		bootLogger.Warn(".envの読み込みに失敗", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatal("設定の読み込みに失敗", zap.Error(err))
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: logging.Format(cfg.Log.Format)})
	if err != nil {
		bootLogger.Fatal("ロガーの初期化に失敗", zap.Error(err))
	}
	defer logger.Sync()

	if err := cfg.Credentials.Validate(); err != nil {
		logger.Warn("EKA認証情報が揃っていません。リクエストは400で拒否されます", zap.Error(err))
	}

	server := relay.NewServer(cfg, logger)

	logger.Info("認証リレーサービスを起動します",
		zap.String("port", cfg.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Duration("upstream_timeout", cfg.Upstream.Timeout),
	)
	if err := server.Run(); err != nil {
		logger.Fatal("認証リレーサービスの起動に失敗", zap.Error(err))
	}
}
