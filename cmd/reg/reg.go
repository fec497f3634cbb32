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

package reg

import (
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-dds/pkg/command"
	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/dds"
)

const (
	AddrOptionName    = "addr"
	ValueOptionName   = "value"
	JournalOptionName = "journal"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reg",
		Short: "Write DDS core registers directly",
	}
	cmd.AddCommand(NewWriteCommand(cfg))
	return cmd
}

func NewWriteCommand(cfg *config.Config) *cobra.Command {
	var addr, value, journal string
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write value to register",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := dds.NewRegFromHex(addr, value)
			if err != nil {
				return err
			}
			if journal != "" {
				cfg.JournalPath = journal
			}
			local, err := command.OpenLocal(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer local.Close()
			return local.WriteRegister(cmd.Context(), reg.Addr, reg.Value)
		},
	}
	cmd.Flags().StringVar(&addr, AddrOptionName, "", "Register address (hexadecimal)")
	cmd.MarkFlagRequired(AddrOptionName)
	cmd.Flags().StringVar(&value, ValueOptionName, "", "Register value (hexadecimal)")
	cmd.MarkFlagRequired(ValueOptionName)
	cmd.Flags().StringVar(&journal, JournalOptionName, "", "Journal database path")

	return cmd
}
