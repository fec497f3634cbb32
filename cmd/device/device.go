/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package device

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/dds"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Inspect IIO devices",
	}
	cmd.AddCommand(NewShowCommand(cfg))
	cmd.AddCommand(NewListCommand(cfg))
	return cmd
}

func NewShowCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the register file of the DDS core",
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := dds.Open(cmd.Context(), cfg.DeviceConfig, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", core.DeviceID(), core.RegFilePath())
			return nil
		},
	}
	return cmd
}

func NewListCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List IIO devices and their names",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := dds.List(cmd.Context(), cfg.DeviceConfig, nil)
			if err != nil {
				return err
			}
			for _, d := range devices {
				mark := ""
				if d.Name == cfg.DeviceName {
					mark = " *"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s%s\n", d.ID, d.Name, mark)
			}
			return nil
		},
	}
	return cmd
}
