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

package command

import (
	"context"

	"github.com/spf13/afero"

	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/dds"
	"jinr.ru/greenlab/go-dds/pkg/dds/ifc"
	"jinr.ru/greenlab/go-dds/pkg/log"
	"jinr.ru/greenlab/go-dds/pkg/srv"
	"jinr.ru/greenlab/go-dds/pkg/state"
)

// Local is a DDS core opened in this process, journaled if cfg.JournalPath is set
type Local struct {
	ifc.Core
	Journal *state.RegJournal
}

// Close releases the journal if there is one
func (l *Local) Close() {
	if l.Journal != nil {
		if err := l.Journal.Close(); err != nil {
			log.Warning("Error while closing journal: %s", err)
		}
	}
}

// OpenLocal discovers the DDS core. fs may be nil for the OS filesystem.
func OpenLocal(ctx context.Context, cfg *config.Config, fs afero.Fs) (*Local, error) {
	core, err := dds.Open(ctx, cfg.DeviceConfig, fs)
	if err != nil {
		return nil, err
	}
	if cfg.JournalPath == "" {
		return &Local{Core: core}, nil
	}
	journal, err := state.NewRegJournal(cfg.JournalPath)
	if err != nil {
		return nil, err
	}
	return &Local{
		Core:    state.NewJournaledCore(core, journal),
		Journal: journal,
	}, nil
}

// StartApiServer opens the DDS core and serves the API until ctx is done
func StartApiServer(ctx context.Context, cfg *config.Config) error {
	local, err := OpenLocal(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer local.Close()
	return srv.NewApiServer(ctx, cfg, local.Core, local.Journal).Run()
}
