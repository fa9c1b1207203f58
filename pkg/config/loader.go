package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// ConfigFileEnvVar points at an optional YAML config file. When unset the
// generator runs with built-in defaults, which reproduce the reference
// fixture set.
const ConfigFileEnvVar = "FIXTURES_CONFIG_FILE"

func readConfig[E any](configFilePath string, defaults *E) (*E, error) {
	vp := viper.New()
	defaultsMap := map[string]interface{}{}

	if defaults != nil {
		mapstructure.Decode(defaults, &defaultsMap)

		for key, value := range defaultsMap {
			if value != nil && value != "" {
				vp.SetDefault(key, value)
			}
		}
	}

	vp.SetConfigFile(configFilePath)
	if err := vp.ReadInConfig(); err != nil {
		// Viper does not raise ConfigFileNotFoundError when the path was
		// given through SetConfigFile, so a missing file also lands here.
		return nil, fmt.Errorf("error while processing config file: %w", err)
	}

	var config E
	err := vp.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return &config, nil
}

func LoadConfig[E any](defaults *E) (*E, error) {
	configFileEnv := os.Getenv(ConfigFileEnvVar)

	if configFileEnv != "" {
		log.Infof("loading config file from %s", configFileEnv)
		return readConfig[E](configFileEnv, defaults)
	}

	if defaults == nil {
		return nil, fmt.Errorf("ENV '%s' variable not set and no defaults provided", ConfigFileEnvVar)
	}

	log.Infof("ENV '%s' variable not set, running with built-in defaults", ConfigFileEnvVar)
	return defaults, nil
}
