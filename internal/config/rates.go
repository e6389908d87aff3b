package config

import "os"

const (
	apiKeyEnv             = "RATES_API_KEY"
	defaultRatesURL       = "https://api.currencyfreaks.com/v2.0/rates/latest"
	defaultTimeoutSeconds = 10
)

type RatesConfig struct {
	Key            string `yaml:"api-key"`
	URL            string `yaml:"base-url"`
	RequestTimeout int64  `yaml:"timeout-seconds"`
}

// APIKey prefers the environment so the secret never has to live in the
// config file.
func (f *RatesConfig) APIKey() string {
	if key := os.Getenv(apiKeyEnv); key != "" {
		return key
	}
	return f.Key
}

func (f *RatesConfig) BaseURL() string {
	if f.URL == "" {
		return defaultRatesURL
	}
	return f.URL
}

func (f *RatesConfig) TimeoutSeconds() int64 {
	if f.RequestTimeout <= 0 {
		return defaultTimeoutSeconds
	}
	return f.RequestTimeout
}
