// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Env holds every runtime setting the service needs.
type Env struct {
	Port        string
	DatabaseURL string

	StorageRegion   string
	StorageEndpoint string
	StorageBucket   string

	PriorityQueue string
	NormalQueue   string

	JWTSecret      string
	InternalSecret string

	MQTTBrokerURL string
	MQTTClientID  string
	MQTTUsername  string
	MQTTPassword  string

	MaxUploadBody string
}

// MustLoad reads a .env file when present, then the environment. Missing
// required variables panic at startup rather than failing mid-request.
func MustLoad() Env {
	_ = godotenv.Load()

	return Env{
		Port:        get("PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),

		StorageRegion:   get("STORAGE_REGION", "auto"),
		StorageEndpoint: get("STORAGE_ENDPOINT", ""),
		StorageBucket:   must("STORAGE_BUCKET"),

		PriorityQueue: must("QUEUE_PRIORITY"),
		NormalQueue:   must("QUEUE_NORMAL"),

		JWTSecret:      must("JWT_SECRET"),
		InternalSecret: must("INTERNAL_SECRET"),

		MQTTBrokerURL: must("MQTT_BROKER_URL"),
		MQTTClientID:  get("MQTT_CLIENT_ID", "audio-batch-service"),
		MQTTUsername:  get("MQTT_USERNAME", ""),
		MQTTPassword:  get("MQTT_PASSWORD", ""),

		MaxUploadBody: get("MAX_UPLOAD_BODY", "100M"),
	}
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic(fmt.Errorf("missing env %s", k))
	}
	return v
}
