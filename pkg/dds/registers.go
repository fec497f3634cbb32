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

package dds

import (
	"fmt"
	"strconv"
	"strings"
)

type RegAlias int

const (
	RegChanCntrl7I RegAlias = iota
	RegChanCntrl8Q
	RegAliasLimit
)

// DDS core control registers, see axi_dds channel register map
var RegMap = map[RegAlias]uint32{
	RegChanCntrl7I: 0x80000418, // DDS_CHAN_CNTRL_7, I channel source
	RegChanCntrl8Q: 0x80000458, // DDS_CHAN_CNTRL_8, Q channel source
}

// ParseChannel maps "i" or "q" to the source control register alias
func ParseChannel(channel string) (RegAlias, error) {
	switch strings.ToLower(strings.TrimSpace(channel)) {
	case "i":
		return RegChanCntrl7I, nil
	case "q":
		return RegChanCntrl8Q, nil
	}
	return RegAliasLimit, ErrUnknownChannel{Channel: channel}
}

type Reg struct {
	Addr  uint32
	Value uint32
}

// NewRegFromHex parses address and value, both with 0x prefix
func NewRegFromHex(addr, value string) (*Reg, error) {
	a, err := ParseHex(addr)
	if err != nil {
		return nil, err
	}
	v, err := ParseHex(value)
	if err != nil {
		return nil, err
	}
	return &Reg{Addr: a, Value: v}, nil
}

// ParseHex parses a 32 bit number. Accepts 0x, 0o, 0b prefixes or plain decimal.
func ParseHex(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Hex returns address and value as the driver expects them
func (r *Reg) Hex() (string, string) {
	return fmt.Sprintf("%#x", r.Addr), fmt.Sprintf("%#x", r.Value)
}

// Command is the single line direct_reg_access understands
func (r *Reg) Command() string {
	addr, value := r.Hex()
	return addr + " " + value
}
