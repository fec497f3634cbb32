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
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-dds/pkg/command"
	"jinr.ru/greenlab/go-dds/pkg/config"
)

const (
	AddrOptionName  = "addr"
	ValueOptionName = "value"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reg",
		Short: "Register operations via API server",
	}
	cmd.AddCommand(NewWriteCommand(cfg))
	cmd.AddCommand(NewJournalCommand(cfg))
	return cmd
}

func NewWriteCommand(cfg *config.Config) *cobra.Command {
	var addr, value string
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write value to register",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := command.NewApiClient(cfg).RegWrite(addr, value)
			return err
		},
	}
	cmd.Flags().StringVar(&addr, AddrOptionName, "", "Register address (hexadecimal)")
	cmd.MarkFlagRequired(AddrOptionName)
	cmd.Flags().StringVar(&value, ValueOptionName, "", "Register value (hexadecimal)")
	cmd.MarkFlagRequired(ValueOptionName)

	return cmd
}

func NewJournalCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show values written through the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := command.NewApiClient(cfg).Journal()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "Register state: %s = %s\n", e.Addr, e.Value)
			}
			return nil
		},
	}
	return cmd
}
