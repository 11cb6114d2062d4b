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

// Package main runs a tako Class compiled from blueprint files
// against a stream of JSON messages from stdin, an MQTT broker, or a
// WebSocket server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Comcast/tako/blueprint"
	"github.com/Comcast/tako/interpreters"
	"github.com/Comcast/tako/sio"
	"github.com/Comcast/tako/store/bolt"
)

func main() {

	var (
		coupling   = flag.String("io", "std", `IO protocol: "std", "mq", or "ws"`)
		blueprints = flag.String("blueprints", "", "Comma-separated blueprint filenames (the last one is run)")
		paramsJS   = flag.String("params", "{}", "Blueprint parameters (JSON)")
		arm        = flag.String("arm", "", "Arm for messages that don't name one")
		spread     = flag.Bool("spread", false, "Emit each element of an array output separately")
		boltFile   = flag.String("bolt", "", "Optional bbolt filename for a Warehouse shared by all messages")

		wait      = flag.Duration("wait", time.Second, "Wait this long before shutting down couplings")
		haltOnEOF = flag.Bool("halt-on-eof", false, "Stop on input EOF")
		logLevel  = flag.String("log-level", "info", `"debug", "info", "warn", or "error"`)
		logFile   = flag.String("log-file", "", "Optional file for JSON logs")
		help      = flag.Bool("h", false, "Get usage")
	)

	flag.Parse()

	if *help {
		flag.PrintDefaults()

		{
			fmt.Fprintf(os.Stderr, "\n-io std (default):\n\n")
			_, fs := NewStdCouplings(nil)
			fs.PrintDefaults()
		}

		{
			fmt.Fprintf(os.Stderr, "\n-io mq:\n\n")
			_, fs := NewMQTTCouplings(nil, nil)
			fs.PrintDefaults()
		}

		{
			fmt.Fprintf(os.Stderr, "\n-io ws:\n\n")
			_, fs := NewWebSocketCouplings(nil, nil)
			fs.PrintDefaults()
		}

		os.Exit(0)
	}

	logger, closeLog, err := NewLogger(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := run(*coupling, *blueprints, *paramsJS, *arm, *spread, *boltFile, *wait, *haltOnEOF, logger); err != nil {
		logger.Error("takoio", "err", err)
		closeLog()
		os.Exit(1)
	}
}

func run(coupling, blueprints, paramsJS, arm string, spread bool, boltFile string, wait time.Duration, haltOnEOF bool, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var params map[string]interface{}
	if err := json.Unmarshal([]byte(paramsJS), &params); err != nil {
		return fmt.Errorf("bad -params: %w", err)
	}

	if blueprints == "" {
		return fmt.Errorf("no -blueprints")
	}
	class, err := blueprint.LoadFiles(ctx, blueprint.Standard(), interpreters.Standard(), params,
		strings.Split(blueprints, ",")...)
	if err != nil {
		return err
	}
	inst, err := class.New()
	if err != nil {
		return err
	}
	logger.Info("instance ready", "class", class.Name(), "arms", class.ArmNames())

	var cio sio.Couplings
	switch coupling {
	case "std":
		c, _ := NewStdCouplings(flag.Args())
		c.Logger = logger
		cio = c
	case "mq", "mqtt":
		c, _ := NewMQTTCouplings(flag.Args(), logger)
		cio = c
	case "ws":
		c, _ := NewWebSocketCouplings(flag.Args(), logger)
		cio = c
	default:
		return fmt.Errorf("unknown io: '%s'", coupling)
	}

	if err := cio.Start(ctx); err != nil {
		return err
	}

	conf := &sio.Conf{
		Arm:            arm,
		Spread:         spread,
		HaltOnInputEOF: haltOnEOF,
	}

	r, err := sio.NewRunner(ctx, conf, inst, cio)
	if err != nil {
		return err
	}
	r.Logger = logger

	if boltFile != "" {
		w := bolt.NewWarehouse(boltFile, "")
		w.Logger = logger
		if err := w.Open(); err != nil {
			return err
		}
		defer w.Close()
		r.Warehouse = w
	}

	go func() {
		if std, is := cio.(*sio.Stdio); is {
			<-std.InputEOF
			logger.Info("input EOF", "wait", wait)
			time.Sleep(wait)
			cancel()
		}
	}()

	if err := r.Loop(ctx); err != nil {
		return err
	}
	cancel()

	if err = cio.Stop(context.Background()); err != nil {
		logger.Warn("io.Stop", "err", err)
	}
	return nil
}
