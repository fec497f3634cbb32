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

// go-dds API
//
// RESTful APIs to poke DDS core registers
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
package srv

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/dds"
	"jinr.ru/greenlab/go-dds/pkg/dds/ifc"
	"jinr.ru/greenlab/go-dds/pkg/log"
	"jinr.ru/greenlab/go-dds/pkg/state"
)

const (
	shutdownTimeout = 5 * time.Second
)

// RegHex ...
type RegHex struct {
	Addr  string // hexadecimal
	Value string // hexadecimal
}

// ChannelSource ...
type ChannelSource struct {
	Source string // hexadecimal
}

type DeviceResp struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

type JournalEntryHex struct {
	Addr      string `json:"addr"`
	Value     string `json:"value"`
	Timestamp uint64 `json:"timestamp"`
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	core    ifc.Core
	journal *state.RegJournal
}

// NewApiServer ... journal may be nil
func NewApiServer(ctx context.Context, cfg *config.Config, core ifc.Core, journal *state.RegJournal) *ApiServer {
	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		core:    core,
		journal: journal,
	}
	s.configureRouter()
	return s
}

// Handler returns the router wrapped with access logging and panic recovery
func (s *ApiServer) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))
	return recovery(handlers.LoggingHandler(log.Writer(), s.Router))
}

// Run serves until the server context is done
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s device: %s", s.Config.Addr(), s.core.DeviceID())
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    s.Config.Addr(),
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case <-s.Context.Done():
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return err
		}
		return s.Context.Err()
	case err := <-errChan:
		return err
	}
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/device", s.handleDevice()).Methods("GET")
	subRouter.HandleFunc("/reg/w", s.handleRegWrite()).Methods("POST")
	subRouter.HandleFunc("/reg/journal", s.handleJournal()).Methods("GET")
	subRouter.HandleFunc("/channel/{channel:[iqIQ]}", s.handleChannel()).Methods("POST")
}

func (s *ApiServer) handleDevice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&DeviceResp{
			ID:   s.core.DeviceID(),
			Path: s.core.RegFilePath(),
		})
	}
}

func (s *ApiServer) handleRegWrite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regHex := &RegHex{}
		err := json.NewDecoder(r.Body).Decode(regHex)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Debug("Handling reg write request: addr: %s value: %s", regHex.Addr, regHex.Value)

		reg, err := dds.NewRegFromHex(regHex.Addr, regHex.Value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.core.WriteRegister(r.Context(), reg.Addr, reg.Value); err != nil {
			log.Error("Register write failed: %s", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		addr, value := reg.Hex()
		json.NewEncoder(w).Encode(&RegHex{Addr: addr, Value: value})
	}
}

func (s *ApiServer) handleChannel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		source := &ChannelSource{}
		if err := json.NewDecoder(r.Body).Decode(source); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Debug("Handling channel source request: channel: %s source: %s", vars["channel"], source.Source)

		value, err := dds.ParseHex(source.Source)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		err = dds.SetChannelSource(r.Context(), s.core, vars["channel"], value)
		var unknown dds.ErrUnknownChannel
		switch {
		case errors.As(err, &unknown):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			log.Error("Channel source write failed: %s", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
}

func (s *ApiServer) handleJournal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.journal == nil {
			http.Error(w, ErrNoJournal{}.Error(), http.StatusNotFound)
			return
		}
		entries, err := s.journal.GetRegAll(s.core.DeviceID())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp := []*JournalEntryHex{}
		for _, e := range entries {
			addr, value := e.Hex()
			resp = append(resp, &JournalEntryHex{Addr: addr, Value: value, Timestamp: e.Timestamp})
		}
		json.NewEncoder(w).Encode(resp)
	}
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error("API handler panic: %v", v)
}
