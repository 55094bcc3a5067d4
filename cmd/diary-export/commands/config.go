package commands

import (
	"os"

	"diary-export/lib/configutil"
	"diary-export/lib/scrapers/myfitnesspal"
)

type CacheConfig struct {
	// defaults to <dev_state>/cache
	Path     string `json:"path" yaml:"path"`
	Disabled bool   `json:"disabled" yaml:"disabled"`
}

type Config struct {
	Username     string                 `json:"username" yaml:"username"`
	Password     string                 `json:"password" yaml:"password"`
	BaseUrl      string                 `json:"base_url" yaml:"base_url"`
	AnalyzedUser string                 `json:"analyzed_user" yaml:"analyzed_user"`
	Cache        CacheConfig            `json:"cache" yaml:"cache"`
	DateLayouts  []string               `json:"date_layouts" yaml:"date_layouts"`
	Selectors    myfitnesspal.Selectors `json:"selectors" yaml:"selectors"`
}

// readConfig reads the --config file, a missing file is an empty config.
func readConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config](configPath)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
