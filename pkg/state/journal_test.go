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
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-dds/pkg/dds"
)

type fakeCore struct {
	writes []dds.Reg
	err    error
}

func (f *fakeCore) WriteRegister(_ context.Context, addr, value uint32) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, dds.Reg{Addr: addr, Value: value})
	return nil
}

func (f *fakeCore) SetIChannelSource(ctx context.Context, source uint32) error {
	return f.WriteRegister(ctx, 0x80000418, source)
}

func (f *fakeCore) SetQChannelSource(ctx context.Context, source uint32) error {
	return f.WriteRegister(ctx, 0x80000458, source)
}

func (f *fakeCore) DeviceID() string    { return "iio:device1" }
func (f *fakeCore) RegFilePath() string { return "/sys/kernel/debug/iio/iio:device1/direct_reg_access" }

func newJournal(t *testing.T) *RegJournal {
	t.Helper()
	j, err := NewRegJournal(filepath.Join(t.TempDir(), "db", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalSetGet(t *testing.T) {
	j := newJournal(t)

	require.NoError(t, j.SetReg("iio:device1", &dds.Reg{Addr: 0x80000458, Value: 3}))
	require.NoError(t, j.SetReg("iio:device1", &dds.Reg{Addr: 0x80000418, Value: 1}))
	require.NoError(t, j.SetReg("iio:device1", &dds.Reg{Addr: 0x80000418, Value: 2}))

	entry, err := j.GetReg("iio:device1", 0x80000418)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), entry.Value)
	assert.NotZero(t, entry.Timestamp)
	addr, value := entry.Hex()
	assert.Equal(t, "0x80000418", addr)
	assert.Equal(t, "0x2", value)

	all, err := j.GetRegAll("iio:device1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint32(0x80000418), all[0].Addr)
	assert.Equal(t, uint32(0x80000458), all[1].Addr)
}

func TestJournalMissing(t *testing.T) {
	j := newJournal(t)

	_, err := j.GetReg("iio:device9", 0x10)
	assert.ErrorAs(t, err, &ErrBucketNotFound{})

	require.NoError(t, j.SetReg("iio:device9", &dds.Reg{Addr: 0x20, Value: 1}))
	_, err = j.GetReg("iio:device9", 0x10)
	var keyErr ErrKeyNotFound
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, uint32(0x10), keyErr.Addr)

	all, err := j.GetRegAll("iio:device0")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestJournaledCore(t *testing.T) {
	j := newJournal(t)
	core := &fakeCore{}
	jc := NewJournaledCore(core, j)
	ctx := context.Background()

	require.NoError(t, jc.SetIChannelSource(ctx, 0x1))
	require.NoError(t, jc.SetQChannelSource(ctx, 0x2))
	assert.Equal(t, []dds.Reg{{Addr: 0x80000418, Value: 1}, {Addr: 0x80000458, Value: 2}}, core.writes)
	assert.Equal(t, core.RegFilePath(), jc.RegFilePath())

	entry, err := jc.Journal().GetReg(core.DeviceID(), 0x80000458)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), entry.Value)
}

func TestJournaledCoreSkipsFailedWrites(t *testing.T) {
	j := newJournal(t)
	writeErr := errors.New("permission denied")
	jc := NewJournaledCore(&fakeCore{err: writeErr}, j)

	err := jc.WriteRegister(context.Background(), 0x80000418, 7)
	assert.ErrorIs(t, err, writeErr)

	_, err = j.GetReg("iio:device1", 0x80000418)
	assert.ErrorAs(t, err, &ErrBucketNotFound{})
}
