// Package config 存放各模块的配置项，通过 init() 注册到 pkg/config
package config

// Initialize 触发加载本目录下所有 init() 注册的配置
func Initialize() {}
