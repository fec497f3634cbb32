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
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/srv"
)

// ErrApi returned when the API server answers with a non 200 status
type ErrApi struct {
	Status string
	Body   string
}

func (e ErrApi) Error() string {
	if e.Body == "" {
		return e.Status
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Body)
}

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s/api", cfg.Addr()),
	}
}

func checkStatus(r *req.Resp) error {
	if r.Response().StatusCode != http.StatusOK {
		return ErrApi{
			Status: r.Response().Status,
			Body:   strings.TrimSpace(r.String()),
		}
	}
	return nil
}

// Device returns the register file the server writes to
func (c *ApiClient) Device() (*srv.DeviceResp, error) {
	r, err := req.Get(fmt.Sprintf("%s/device", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	device := &srv.DeviceResp{}
	if err := r.ToJSON(device); err != nil {
		return nil, err
	}
	return device, nil
}

// RegWrite sends request to write the value to a register
func (c *ApiClient) RegWrite(addr, value string) (*srv.RegHex, error) {
	reg := &srv.RegHex{
		Addr:  addr,
		Value: value,
	}
	r, err := req.Post(fmt.Sprintf("%s/reg/w", c.ApiPrefix), req.BodyJSON(reg))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	written := &srv.RegHex{}
	if err := r.ToJSON(written); err != nil {
		return nil, err
	}
	return written, nil
}

// SetChannelSource sends request to select the source of the I or Q channel
func (c *ApiClient) SetChannelSource(channel, source string) error {
	body := &srv.ChannelSource{Source: source}
	r, err := req.Post(fmt.Sprintf("%s/channel/%s", c.ApiPrefix, channel), req.BodyJSON(body))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// Journal returns registers written through the server
func (c *ApiClient) Journal() ([]*srv.JournalEntryHex, error) {
	r, err := req.Get(fmt.Sprintf("%s/reg/journal", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	var entries []*srv.JournalEntryHex
	if err := r.ToJSON(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}
