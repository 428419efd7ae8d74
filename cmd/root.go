// Package cmd assembles the subscan command tree.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subghzlab/subscan-go/cmd/compare"
	"github.com/subghzlab/subscan-go/cmd/directory"
	"github.com/subghzlab/subscan-go/cmd/file"
	"github.com/subghzlab/subscan-go/cmd/watch"
	"github.com/subghzlab/subscan-go/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "subscan",
		Short: "SubScan-Go sub-GHz capture analyzer",
		Long:  "Decode, identify and classify RF remote control captures from Flipper Zero .sub files.",
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		file.Command(settings),
		directory.Command(settings),
		compare.Command(settings),
		watch.Command(settings),
	)

	return rootCmd
}

// setupFlags configures the global flags shared by all subcommands.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&settings.Decoder.Threshold, "threshold", "t", viper.GetString("decoder.threshold"), "Threshold method: median, mean or adaptive")
	rootCmd.PersistentFlags().StringVarP(&settings.Decoder.Encoding, "encoding", "e", viper.GetString("decoder.encoding"), "Encoding: auto, ook, manchester or pwm")
	rootCmd.PersistentFlags().IntVar(&settings.Decoder.DataLength, "data-length", viper.GetInt("decoder.datalength"), "Data bits extracted after a preamble")
}
