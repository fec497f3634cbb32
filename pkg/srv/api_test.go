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

package srv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/dds"
	"jinr.ru/greenlab/go-dds/pkg/state"
)

type stubCore struct {
	writes []dds.Reg
	err    error
}

func (c *stubCore) WriteRegister(_ context.Context, addr, value uint32) error {
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, dds.Reg{Addr: addr, Value: value})
	return nil
}

func (c *stubCore) SetIChannelSource(ctx context.Context, source uint32) error {
	return c.WriteRegister(ctx, dds.RegMap[dds.RegChanCntrl7I], source)
}

func (c *stubCore) SetQChannelSource(ctx context.Context, source uint32) error {
	return c.WriteRegister(ctx, dds.RegMap[dds.RegChanCntrl8Q], source)
}

func (c *stubCore) DeviceID() string    { return "iio:device1" }
func (c *stubCore) RegFilePath() string { return "/sys/kernel/debug/iio/iio:device1/direct_reg_access" }

func do(t *testing.T, s *ApiServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestDevice(t *testing.T) {
	s := NewApiServer(context.Background(), config.NewDefaultConfig(), &stubCore{}, nil)

	rec := do(t, s, "GET", "/api/device", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := &DeviceResp{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(resp))
	assert.Equal(t, "iio:device1", resp.ID)
	assert.Equal(t, "/sys/kernel/debug/iio/iio:device1/direct_reg_access", resp.Path)
}

func TestRegWrite(t *testing.T) {
	core := &stubCore{}
	s := NewApiServer(context.Background(), config.NewDefaultConfig(), core, nil)

	rec := do(t, s, "POST", "/api/reg/w", `{"Addr":"0x80000418","Value":"0x2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []dds.Reg{{Addr: 0x80000418, Value: 2}}, core.writes)

	resp := &RegHex{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(resp))
	assert.Equal(t, &RegHex{Addr: "0x80000418", Value: "0x2"}, resp)
}

func TestRegWriteBadInput(t *testing.T) {
	core := &stubCore{}
	s := NewApiServer(context.Background(), config.NewDefaultConfig(), core, nil)

	for _, body := range []string{`{`, `{"Addr":"zz","Value":"0x1"}`, `{"Addr":"0x1","Value":"0x100000000"}`} {
		rec := do(t, s, "POST", "/api/reg/w", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, core.writes)
}

func TestRegWriteFailure(t *testing.T) {
	core := &stubCore{err: &dds.WriteError{Path: "/nowhere", Err: assert.AnError}}
	s := NewApiServer(context.Background(), config.NewDefaultConfig(), core, nil)

	rec := do(t, s, "POST", "/api/reg/w", `{"Addr":"0x1","Value":"0x1"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "/nowhere")
}

func TestChannel(t *testing.T) {
	core := &stubCore{}
	s := NewApiServer(context.Background(), config.NewDefaultConfig(), core, nil)

	rec := do(t, s, "POST", "/api/channel/i", `{"Source":"0x3"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, s, "POST", "/api/channel/Q", `{"Source":"4"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []dds.Reg{{Addr: 0x80000418, Value: 3}, {Addr: 0x80000458, Value: 4}}, core.writes)

	rec = do(t, s, "POST", "/api/channel/x", `{"Source":"0x1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, "POST", "/api/channel/i", `{"Source":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJournal(t *testing.T) {
	s := NewApiServer(context.Background(), config.NewDefaultConfig(), &stubCore{}, nil)
	rec := do(t, s, "GET", "/api/reg/journal", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	journal, err := state.NewRegJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer journal.Close()
	core := state.NewJournaledCore(&stubCore{}, journal)
	s = NewApiServer(context.Background(), config.NewDefaultConfig(), core, journal)

	rec = do(t, s, "POST", "/api/channel/q", `{"Source":"0x1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, "GET", "/api/reg/journal", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []*JournalEntryHex
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "0x80000458", entries[0].Addr)
	assert.Equal(t, "0x1", entries[0].Value)
}

func TestRunStopsWithContext(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Port = 0
	ctx, cancel := context.WithCancel(context.Background())
	s := NewApiServer(ctx, cfg, &stubCore{}, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run() }()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
