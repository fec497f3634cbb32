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

package state

import (
	"context"
	"fmt"

	"jinr.ru/greenlab/go-dds/pkg/dds"
	"jinr.ru/greenlab/go-dds/pkg/dds/ifc"
)

// JournaledCore records successful writes of the wrapped core
type JournaledCore struct {
	ifc.Core
	journal *RegJournal
}

var _ ifc.Core = &JournaledCore{}

func NewJournaledCore(core ifc.Core, journal *RegJournal) *JournaledCore {
	return &JournaledCore{Core: core, journal: journal}
}

func (c *JournaledCore) Journal() *RegJournal {
	return c.journal
}

// WriteRegister writes through and then journals. A journal error does not undo the write.
func (c *JournaledCore) WriteRegister(ctx context.Context, addr, value uint32) error {
	if err := c.Core.WriteRegister(ctx, addr, value); err != nil {
		return err
	}
	if err := c.journal.SetReg(c.DeviceID(), &dds.Reg{Addr: addr, Value: value}); err != nil {
		return fmt.Errorf("register %#x written but not journaled: %w", addr, err)
	}
	return nil
}

func (c *JournaledCore) SetIChannelSource(ctx context.Context, source uint32) error {
	return c.WriteRegister(ctx, dds.RegMap[dds.RegChanCntrl7I], source)
}

func (c *JournaledCore) SetQChannelSource(ctx context.Context, source uint32) error {
	return c.WriteRegister(ctx, dds.RegMap[dds.RegChanCntrl8Q], source)
}
