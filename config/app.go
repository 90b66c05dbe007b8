package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	// Cloudinary-compatible unsigned upload target for designer assets.
	StorageCloudName    string `env:"STORAGE_CLOUD_NAME"`
	StorageUploadPreset string `env:"STORAGE_UPLOAD_PRESET"`
}
