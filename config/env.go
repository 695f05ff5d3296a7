package config

import (
	"os"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file without overriding ones already
// set in the environment. A missing file is not an error.
func LoadEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		glog.V(1).Infof(".env file %s not loaded: %v", path, err)
		return
	}
	glog.V(1).Infof(".env file %s loaded", path)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
