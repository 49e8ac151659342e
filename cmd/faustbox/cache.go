package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the factory cache",
	Long:  `Lists, shows and removes factories of a persistent cache (--store file or redis).`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the SHA keys of cached factories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService(cmd)
		if err != nil {
			return err
		}
		keys, err := svc.Factories(cmd.Context())
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <sha>",
	Short: "Print a cached factory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService(cmd)
		if err != nil {
			return err
		}
		f, err := svc.Factory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		binary, _ := cmd.Flags().GetBool("binary")
		return f.Write(cmd.OutOrStdout(), binary, false)
	},
}

var cacheRemoveCmd = &cobra.Command{
	Use:   "rm <sha>...",
	Short: "Remove factories from the cache",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService(cmd)
		if err != nil {
			return err
		}
		for _, sha := range args {
			if err := svc.Forget(cmd.Context(), sha); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd, cacheShowCmd, cacheRemoveCmd)
	cacheShowCmd.Flags().Bool("binary", false, "Write the factory as MessagePack")
}
