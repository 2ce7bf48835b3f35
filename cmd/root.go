/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/realgas/utils"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "realgas",
	Short: "Thermodynamic state evaluation for real and ideal gases",
	Long: `
Evaluates thermodynamic states of a fluid from any supported pair of inputs,
using either a calorically perfect gas or a real fluid equation of state.

realgas state --fluid CO2 --model realgas --pair PT --v1 5e6 --v2 300`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if err = utils.InitLogging(viper.GetString("log-level"), viper.GetBool("log-pretty")); err != nil {
			return
		}
		if cf := viper.ConfigFileUsed(); cf != "" {
			log.Debug().Str("config", cf).Msg("using config file")
		}
		return
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.realgas.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "human readable console logging instead of JSON")
	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".realgas")
	}
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// bindFlags lets values from the config file stand in for flags the user did
// not set on the command line
func bindFlags(cmd *cobra.Command) (v *viper.Viper, err error) {
	v = viper.New()
	if err = v.BindPFlags(cmd.Flags()); err != nil {
		return
	}
	if used := viper.ConfigFileUsed(); used != "" {
		if sub := viper.Sub(cmd.Name()); sub != nil {
			for _, key := range sub.AllKeys() {
				v.SetDefault(key, sub.Get(key))
			}
		}
	}
	return
}
