// Package app provides the application initialization and wiring.
package app

import (
	"github.com/spf13/viper"
)

// ConfigureViper sets up viper with standard config file search paths.
// Config file: logrelay.toml
// Search paths (in order): /etc/logrelay, ~/.config/logrelay, current directory
func ConfigureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("logrelay")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/logrelay")
		v.AddConfigPath("$HOME/.config/logrelay")
		v.AddConfigPath(".")
	}
}
