package config

const (
	defaultReferenceCurrency = "EGP"
	defaultDataFile          = "data/expenses.txt"
)

type AppConfig struct {
	ReferenceCurrencyName string `yaml:"reference-currency"`
	DataFilePath          string `yaml:"data-file"`
}

func (s *AppConfig) ReferenceCurrency() string {
	if s.ReferenceCurrencyName == "" {
		return defaultReferenceCurrency
	}
	return s.ReferenceCurrencyName
}

func (s *AppConfig) DataFile() string {
	if s.DataFilePath == "" {
		return defaultDataFile
	}
	return s.DataFilePath
}
