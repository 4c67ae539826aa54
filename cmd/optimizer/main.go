// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

// Command optimizer rewrites a converted model into its fused form:
//
//	optimizer src.json src.bin dst.json dst.bin
//
// The weight blob arguments may be omitted for weightless models. Optional
// fusions are controlled by flags or a YAML config file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	syModel "github.com/uboborov/Synet/model"
	"github.com/uboborov/Synet/optimizer"
)

func main() {
	klog.InitFlags(nil)
	var configPath string
	cmd := &cobra.Command{
		Use:   "optimizer <src-model> [src-bin] <dst-model> [dst-bin]",
		Short: "Fuse and canonicalize a converted model",
		Args:  cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				viper.SetConfigFile(configPath)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}
			options := optimizer.Options{
				MergeTwoConvolutions:             viper.GetBool("mergeTwoConvolutions"),
				MergeTwoConvolutionsOutputNumMax: viper.GetInt("mergeTwoConvolutionsOutputNumMax"),
				MergeInt8Convolutions:            viper.GetBool("mergeInt8Convolutions"),
			}
			srcModel, srcBin, dstModel, dstBin := splitArgs(args)
			if err := syModel.Optimize(srcModel, srcBin, dstModel, dstBin, options); err != nil {
				return err
			}
			report(cmd, srcModel, dstModel)
			report(cmd, srcBin, dstBin)
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file with optimizer options")
	cmd.Flags().AddGoFlagSet(flag.CommandLine)
	defaults := optimizer.DefaultOptions()
	cmd.Flags().Bool("mergeTwoConvolutions", defaults.MergeTwoConvolutions, "fuse depthwise/pointwise convolution pairs")
	cmd.Flags().Int("mergeTwoConvolutionsOutputNumMax", defaults.MergeTwoConvolutionsOutputNumMax, "output channel bound for two-convolution fusion")
	cmd.Flags().Bool("mergeInt8Convolutions", defaults.MergeInt8Convolutions, "allow convolution fusion in quantized networks")
	for _, name := range []string{"mergeTwoConvolutions", "mergeTwoConvolutionsOutputNumMax", "mergeInt8Convolutions"} {
		_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	viper.SetDefault("mergeTwoConvolutions", defaults.MergeTwoConvolutions)
	viper.SetDefault("mergeTwoConvolutionsOutputNumMax", defaults.MergeTwoConvolutionsOutputNumMax)
	viper.SetDefault("mergeInt8Convolutions", defaults.MergeInt8Convolutions)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// splitArgs maps the 2-, 3- or 4-argument forms onto the model/bin pairs.
func splitArgs(args []string) (srcModel, srcBin, dstModel, dstBin string) {
	switch len(args) {
	case 2:
		return args[0], "", args[1], ""
	case 3:
		return args[0], args[1], args[2], ""
	default:
		return args[0], args[1], args[2], args[3]
	}
}

func report(cmd *cobra.Command, src, dst string) {
	if src == "" || dst == "" {
		return
	}
	srcInfo, err1 := os.Stat(src)
	dstInfo, err2 := os.Stat(dst)
	if err1 != nil || err2 != nil {
		return
	}
	cmd.Printf("%s: %s -> %s: %s\n",
		src, humanize.Bytes(uint64(srcInfo.Size())),
		dst, humanize.Bytes(uint64(dstInfo.Size())))
}
