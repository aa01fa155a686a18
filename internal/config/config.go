package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"password"`
	Name string `yaml:"database"`
}

type RabbitMQ struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	User  string `yaml:"user"`
	Pass  string `yaml:"password"`
	VHost string `yaml:"vhost"`
}

type Auth struct {
	JWTSecret      string `yaml:"jwt_secret"`
	AccessTTLHours int    `yaml:"access_ttl_hours"`
	RefreshTTLHrs  int    `yaml:"refresh_ttl_hours"`
}

type Server struct {
	Port           int      `yaml:"port"`
	BaseURL        string   `yaml:"base_url"` // public URL embedded in QR payloads
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type App struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Rabbit   RabbitMQ `yaml:"rabbitmq"`
	Auth     Auth     `yaml:"auth"`
}

func Load(path string) (App, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, err
	}
	var a App
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, err
	}
	a.applyEnv()
	a.applyDefaults()
	if a.Database.Host == "" || a.Rabbit.Host == "" {
		return App{}, errors.New("invalid config: missing database/rabbitmq host")
	}
	if a.Auth.JWTSecret == "" {
		return App{}, errors.New("invalid config: missing auth.jwt_secret")
	}
	return a, nil
}

// Environment variables override file values so deployments can keep
// secrets out of the config file.
func (a *App) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			a.Server.Port = n
		}
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		a.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		a.Database.Pass = v
	}
	if v := os.Getenv("RABBITMQ_HOST"); v != "" {
		a.Rabbit.Host = v
	}
	if v := os.Getenv("RABBITMQ_PASSWORD"); v != "" {
		a.Rabbit.Pass = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		a.Auth.JWTSecret = v
	}
}

func (a *App) applyDefaults() {
	if a.Server.Port == 0 {
		a.Server.Port = 8080
	}
	if a.Server.BaseURL == "" {
		a.Server.BaseURL = "http://localhost:8080"
	}
	if a.Database.Port == 0 {
		a.Database.Port = 5432
	}
	if a.Rabbit.Port == 0 {
		a.Rabbit.Port = 5672
	}
	if a.Rabbit.VHost == "" {
		a.Rabbit.VHost = "/"
	}
	if a.Auth.AccessTTLHours == 0 {
		a.Auth.AccessTTLHours = 24
	}
	if a.Auth.RefreshTTLHrs == 0 {
		a.Auth.RefreshTTLHrs = 720
	}
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
