package main

import (
	"encoding/json"
	"os"
)

// Config holds the flag-settable parameters of the server binary, mirroring
// the reference's JSON config-override file: any field present in the file
// overwrites the value already parsed from flags. The positional hash and
// threads arguments are not part of Config.
type Config struct {
	Addr       string `json:"addr"`
	StatLog    string `json:"statlog"`
	StatPeriod int    `json:"statperiod"`
}

func parseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(config)
}
