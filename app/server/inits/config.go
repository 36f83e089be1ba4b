package inits

import (
	"bug-tracker/app/server/config"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func Config() (cfg *config.Config, err error) {
	// 尝试加载本地 .env ，不存在时忽略
	_ = godotenv.Load()

	cfg = &config.Config{}

	// 手动配置映射
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":1323" // 默认监听地址
	} else {
		cfg.System.Listen = listen
	}

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	if sigsk, exist := os.LookupEnv("SIGNATURE_SECRET_KEY"); !exist {
		return nil, fmt.Errorf("SIGNATURE_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	if devOrigins, exist := os.LookupEnv("CORS_ORIGIN_DEV"); !exist {
		cfg.CORS.DevOrigins = []string{"http://localhost:3000"}
	} else {
		cfg.CORS.DevOrigins = splitOrigins(devOrigins)
	}

	if prodOrigins, exist := os.LookupEnv("CORS_ORIGIN_PROD"); exist {
		cfg.CORS.ProdOrigins = splitOrigins(prodOrigins)
	} else if cfg.System.IsProd {
		return nil, fmt.Errorf("CORS_ORIGIN_PROD environment variable not set")
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
