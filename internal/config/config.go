package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP    HTTPConfig    `yaml:"http"`
	Catalog CatalogConfig `yaml:"catalog"`
	Uploads UploadsConfig `yaml:"uploads"`
	Export  ExportConfig  `yaml:"export"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

// CatalogConfig описывает каталог с JSON-документами (albums/tags/gallery).
type CatalogConfig struct {
	DataDir string `yaml:"data_dir" env-default:"./data"`
}

type UploadsConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"/uploads"`
	MaxSize int64  `yaml:"max_size"`
}

type ExportConfig struct {
	PublishDir string `yaml:"publish_dir" env-default:"./publish"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
