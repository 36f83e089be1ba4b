package config

type Config struct {
	System struct {
		IsProd             bool   // 是否为生产环境
		Listen             string // 监听地址
		DBConnectionString string // Postgres 数据库的连接字符串
	}
	Security struct {
		SignatureSecretKey string // 签名密钥，用于产生 JWT 签名，更新会导致旧有会话失效
	}
	CORS struct {
		DevOrigins  []string // 开发环境放行的来源
		ProdOrigins []string // 生产环境放行的来源
	}
}

func (c *Config) CORSOrigins() []string {
	if c.System.IsProd {
		return c.CORS.ProdOrigins
	}
	return c.CORS.DevOrigins
}
