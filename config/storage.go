package config

import "tagmind/pkg/config"

func init() {
	config.Add("storage", func() map[string]interface{} {
		return map[string]interface{}{
			// 图片存储驱动，可选 local, remote
			"driver": config.Env("STORAGE_DRIVER", "local"),

			// 本地存储目录，通过 /uploads 对外提供访问
			"local_path": config.Env("STORAGE_LOCAL_PATH", "storage/uploads"),

			// 远程对象存储（S3 兼容网关）
			"endpoint":   config.Env("STORAGE_ENDPOINT", ""),
			"bucket":     config.Env("STORAGE_BUCKET", "tagmind"),
			"token":      config.Env("STORAGE_TOKEN", ""),
			"public_url": config.Env("STORAGE_PUBLIC_URL", ""),
			"timeout":    config.Env("STORAGE_TIMEOUT", 30),

			// 上传图片大小上限，单位 MB
			"max_size": config.Env("STORAGE_MAX_SIZE", 10),
		}
	})
}
