// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/layertree"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// app carries the configuration shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCommand builds the layerdump command tree. Each call has its own
// viper instance so commands can run side by side in tests.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:           "layerdump",
		Short:         "Inspect the layer tree built for a JSON box scene.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.initializeConfig(cmd); err != nil {
				return err
			}
			return a.initializeLogger(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./layerdump.yaml)")
	flags.StringP("scene", "s", "", "scene file to load")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.Bool("assertions", false, "panic on layer tree consistency failures")
	_ = a.v.BindPFlag("scene", flags.Lookup("scene"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("assertions", flags.Lookup("assertions"))

	root.AddCommand(
		a.newTreeCommand(),
		a.newPaintOrderCommand(),
		a.newPositionsCommand(),
		a.newVerifyCommand(),
		a.newHitCommand(),
		a.newRenderCommand(),
		a.newCompositingCommand(),
	)
	return root
}

// initializeConfig reads the config file and LAYERDUMP_* environment
// variables. Flags set on the command line take precedence.
func (a *app) initializeConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("layerdump")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("LAYERDUMP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return a.v.BindPFlags(cmd.Flags())
}

func (a *app) initializeLogger(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log.level"))); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	layertree.SetLogger(slog.New(handler))
	return nil
}

// loadTree reads the configured scene and builds its layer tree.
func (a *app) loadTree(opts ...layertree.TreeOption) (*layertree.Tree, error) {
	s, err := loadScene(a.v.GetString("scene"))
	if err != nil {
		return nil, err
	}
	opts = append(opts, layertree.WithAssertions(a.v.GetBool("assertions")))
	return s.build(opts...)
}
