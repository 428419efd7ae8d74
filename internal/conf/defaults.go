// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "SubScan-Go")
	viper.SetDefault("main.log.enabled", false)
	viper.SetDefault("main.log.path", "subscan.log")

	viper.SetDefault("decoder.threshold", ThresholdMedian)
	viper.SetDefault("decoder.encoding", EncodingAuto)
	viper.SetDefault("decoder.datalength", 24)

	viper.SetDefault("output.log.enabled", false)
	viper.SetDefault("output.log.path", "subscan.txt")
	viper.SetDefault("output.sqlite.enabled", false)
	viper.SetDefault("output.sqlite.path", "subscan.db")

	viper.SetDefault("watch.metricsaddr", "")
}
