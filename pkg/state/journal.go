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
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-dds/pkg/dds"
	"jinr.ru/greenlab/go-dds/pkg/log"
)

const (
	BucketNamePrefix = "reg_"
)

// ErrBucketNotFound returned when nothing was ever journaled for a device
type ErrBucketNotFound struct {
	Name string
}

func (e ErrBucketNotFound) Error() string {
	return fmt.Sprintf("Bucket not found: %s", e.Name)
}

// ErrKeyNotFound returned when a register was never written
type ErrKeyNotFound struct {
	Addr uint32
}

func (e ErrKeyNotFound) Error() string {
	return fmt.Sprintf("Key not found: %#x", e.Addr)
}

// JournalEntry is the last value this process wrote to a register.
// It is not read back from hardware.
type JournalEntry struct {
	Addr      uint32 `json:"addr"`
	Value     uint32 `json:"value"`
	Timestamp uint64 `json:"timestamp"` // milliseconds since epoch
}

// Hex is handy for API responses
func (e *JournalEntry) Hex() (string, string) {
	r := &dds.Reg{Addr: e.Addr, Value: e.Value}
	return r.Hex()
}

type RegJournal struct {
	DB *bbolt.DB
}

func NewRegJournal(path string) (*RegJournal, error) {
	log.Debug("Opening register journal: %s", path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &RegJournal{DB: db}, nil
}

// Close ...
func (s *RegJournal) Close() error {
	return s.DB.Close()
}

func Now() uint64 {
	return uint64(time.Now().UnixNano() / int64(time.Millisecond))
}

func uint32ToByte(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func bucketName(deviceID string) string {
	return fmt.Sprintf("%s%s", BucketNamePrefix, deviceID)
}

// SetReg records reg as the last value written to its address
func (s *RegJournal) SetReg(deviceID string, reg *dds.Reg) error {
	log.Debug("Journal register: device: %s Addr: %x Value: %x", deviceID, reg.Addr, reg.Value)
	entry := &JournalEntry{Addr: reg.Addr, Value: reg.Value, Timestamp: Now()}
	data, err := yaml.Marshal(entry)
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName(deviceID)))
		if err != nil {
			return err
		}
		return b.Put(uint32ToByte(reg.Addr), data)
	})
}

// GetReg ...
func (s *RegJournal) GetReg(deviceID string, addr uint32) (*JournalEntry, error) {
	entry := &JournalEntry{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(deviceID)))
		if b == nil {
			return ErrBucketNotFound{Name: bucketName(deviceID)}
		}
		data := b.Get(uint32ToByte(addr))
		if data == nil {
			return ErrKeyNotFound{Addr: addr}
		}
		return yaml.Unmarshal(data, entry)
	}); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetRegAll returns journaled registers of a device ordered by address
func (s *RegJournal) GetRegAll(deviceID string) ([]*JournalEntry, error) {
	var entries []*JournalEntry
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(deviceID)))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, data []byte) error {
			entry := &JournalEntry{}
			if err := yaml.Unmarshal(data, entry); err != nil {
				log.Error("Error while unmarshalling journal entry: %s", err)
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Addr < entries[j].Addr })
	return entries, nil
}
