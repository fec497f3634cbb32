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

package control

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-dds/cmd/control/reg"
	"jinr.ru/greenlab/go-dds/pkg/command"
	"jinr.ru/greenlab/go-dds/pkg/config"
)

const (
	AddressOptionName = "address"
	PortOptionName    = "port"
	JournalOptionName = "journal"
	ChannelOptionName = "channel"
	SourceOptionName  = "source"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "control",
		Short: "Run or talk to the go-dds API server",
	}
	cmd.AddCommand(NewStartCommand(cfg))
	cmd.AddCommand(reg.NewCommand(cfg))
	cmd.AddCommand(NewChannelCommand(cfg))
	cmd.AddCommand(NewDeviceCommand(cfg))
	return cmd
}

func NewStartCommand(cfg *config.Config) *cobra.Command {
	var address, journal string
	var port int
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Address = address
			}
			if port != 0 {
				cfg.Port = port
			}
			if journal != "" {
				cfg.JournalPath = journal
			}
			return command.StartApiServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", fmt.Sprintf("Address to bind. E.g. %s", config.DefaultApiAddress))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("Port to bind. E.g. %d", config.DefaultApiPort))
	cmd.Flags().StringVar(&journal, JournalOptionName, "", fmt.Sprintf("Journal database path. E.g. %s", config.DefaultJournalPath()))

	return cmd
}

func NewChannelCommand(cfg *config.Config) *cobra.Command {
	var channel, source string
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Set I or Q channel source via API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).SetChannelSource(channel, source)
		},
	}
	cmd.Flags().StringVar(&channel, ChannelOptionName, "", "Channel: i or q")
	cmd.MarkFlagRequired(ChannelOptionName)
	cmd.Flags().StringVar(&source, SourceOptionName, "", "Source bit pattern (hexadecimal)")
	cmd.MarkFlagRequired(SourceOptionName)

	return cmd
}

func NewDeviceCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Show the register file the API server writes to",
		RunE: func(cmd *cobra.Command, args []string) error {
			device, err := command.NewApiClient(cfg).Device()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", device.ID, device.Path)
			return nil
		},
	}
	return cmd
}
