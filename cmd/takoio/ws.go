/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/url"

	"github.com/Comcast/tako/sio"

	"github.com/gorilla/websocket"
)

// WebSocketCouplings is an sio.Couplings for a WebSocket client.
// Every message received is input, and every emitted message (and
// error Result) is sent back.
type WebSocketCouplings struct {
	URL    string
	Logger *slog.Logger

	in   chan interface{}
	out  chan *sio.Result
	done chan bool
	conn *websocket.Conn
}

func NewWebSocketCouplings(args []string, logger *slog.Logger) (*WebSocketCouplings, *flag.FlagSet) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &WebSocketCouplings{
		Logger: logger,
		in:     make(chan interface{}),
		out:    make(chan *sio.Result),
		done:   make(chan bool),
	}
	fs := flag.NewFlagSet("ws", flag.ExitOnError)
	fs.StringVar(&c.URL, "url", "ws://localhost:8080", "Target URL for WebSocket server")
	if args == nil {
		return nil, fs
	}
	fs.Parse(args)
	return c, fs
}

// Start creates the WebSocket session and starts processing it.
func (c *WebSocketCouplings) Start(ctx context.Context) error {

	u, err := url.Parse(c.URL)
	if err != nil {
		return err
	}

	c.Logger.Info("wsconnect", "url", u.String())
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return err
	}
	c.conn = conn

	go func() {
		defer close(c.done)
		for {
			_, bs, err := conn.ReadMessage()
			if err != nil {
				c.Logger.Info("ReadMessage", "err", err)
				return
			}
			if len(bs) == 0 {
				continue
			}
			c.Logger.Debug("heard", "msg", string(bs))

			var msg interface{}
			if err = json.Unmarshal(bs, &msg); err != nil {
				c.Logger.Warn("Unmarshal", "err", err, "msg", string(bs))
				continue
			}

			select {
			case <-ctx.Done():
				return
			case c.in <- msg:
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-c.out:
				msgs := r.Emitted
				if r.Err != "" {
					msgs = append(msgs, r)
				}
				for _, msg := range msgs {
					js, err := json.Marshal(&msg)
					if err != nil {
						c.Logger.Warn("Marshal", "err", err)
						continue
					}
					if err = conn.WriteMessage(websocket.TextMessage, js); err != nil {
						c.Logger.Error("WriteMessage", "err", err)
						return
					}
				}
			}
		}
	}()

	return nil
}

// IO just returns the channels that NewWebSocketCouplings made.
func (c *WebSocketCouplings) IO(ctx context.Context) (chan interface{}, chan *sio.Result, chan bool, error) {
	return c.in, c.out, c.done, nil
}

// Stop terminates the WebSocket connection.
func (c *WebSocketCouplings) Stop(ctx context.Context) error {
	c.Logger.Info("disconnecting")
	if c.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.conn.WriteMessage(websocket.CloseMessage, msg)
	return c.conn.Close()
}
