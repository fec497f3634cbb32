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

package channel

import (
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-dds/pkg/command"
	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/dds"
)

const (
	ChannelOptionName = "channel"
	SourceOptionName  = "source"
	JournalOptionName = "journal"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Select DDS channel sources",
	}
	cmd.AddCommand(NewSetCommand(cfg))
	return cmd
}

func NewSetCommand(cfg *config.Config) *cobra.Command {
	var channel, source, journal string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set I or Q channel source",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := dds.ParseChannel(channel); err != nil {
				return err
			}
			value, err := dds.ParseHex(source)
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
			return dds.SetChannelSource(cmd.Context(), local, channel, value)
		},
	}
	cmd.Flags().StringVar(&channel, ChannelOptionName, "", "Channel: i or q")
	cmd.MarkFlagRequired(ChannelOptionName)
	cmd.Flags().StringVar(&source, SourceOptionName, "", "Source bit pattern (hexadecimal)")
	cmd.MarkFlagRequired(SourceOptionName)
	cmd.Flags().StringVar(&journal, JournalOptionName, "", "Journal database path")

	return cmd
}
